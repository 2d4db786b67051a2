// Package models defines GORM data models for ragdeck.
package models

import (
	"time"

	"gorm.io/gorm"
)

// RenderEvent records one render pass of a page served over HTTP.
// Rows are write-only history; they never feed back into rendering.
type RenderEvent struct {
	gorm.Model

	Page string `gorm:"index;not null" json:"page"`
	OK   bool   `gorm:"index" json:"ok"`
	// Error is the render failure, usually a missing asset.
	Error string `json:"error,omitempty"`
	// Blocks counts the blocks emitted before the pass ended.
	Blocks         int   `json:"blocks"`
	DurationMicros int64 `json:"duration_us"`
}

// PageStat is the DTO the admin API returns per page.
type PageStat struct {
	Page         string    `json:"page"`
	Renders      int64     `json:"renders"`
	Failures     int64     `json:"failures"`
	LastError    string    `json:"last_error,omitempty"`
	LastRenderAt time.Time `json:"last_render_at"`
}
