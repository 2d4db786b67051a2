// Package server serves the embedded stylesheet of the page shell.
// The shell is embedded via the root-level webui package.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vesaa/ragdeck/webui"
)

// registerStatic mounts the embedded stylesheet. The layout template stays
// private to internal/render.
func registerStatic(rg *gin.RouterGroup) {
	css, err := webui.Stylesheet()
	if err != nil {
		panic("embed: page.css missing: " + err.Error())
	}
	rg.GET("/static/page.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", css)
	})
}
