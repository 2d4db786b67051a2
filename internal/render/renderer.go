// Package render turns a deck.Page into ordered HTML for the main surface
// and markdown headings for the sidebar surface.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vesaa/ragdeck/internal/deck"
)

// Resolver maps an image path to the URL the page should reference.
// *assets.Resolver satisfies it.
type Resolver interface {
	Resolve(path string) (string, error)
}

// Element is one rendered block of the main surface.
type Element struct {
	Kind deck.Kind
	HTML template.HTML
}

// SidebarEntry is one mirrored heading.
type SidebarEntry struct {
	Markdown string
	HTML     template.HTML
}

// Result holds everything a render pass emitted, in order. When Render
// fails, Result still carries the blocks emitted before the failure.
type Result struct {
	Slug     string
	Title    string
	Elements []Element
	Sidebar  []SidebarEntry
}

// Kinds lists the kinds of the emitted elements.
func (r *Result) Kinds() []deck.Kind {
	out := make([]deck.Kind, len(r.Elements))
	for i, e := range r.Elements {
		out[i] = e.Kind
	}
	return out
}

// Renderer is stateless after construction and safe for concurrent use.
type Renderer struct {
	assets Resolver
	md     goldmark.Markdown
}

func New(assets Resolver) *Renderer {
	return &Renderer{
		assets: assets,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render emits the blocks of p in declaration order. It stops at the first
// image that does not resolve and returns the partial result with the error.
func (r *Renderer) Render(p deck.Page) (*Result, error) {
	res := &Result{Slug: p.Slug(), Title: p.Title()}
	for i, b := range p.Blocks() {
		if err := r.emit(res, b); err != nil {
			return res, fmt.Errorf("rendering block %d (%s): %w", i, b.Kind, err)
		}
	}
	return res, nil
}

func (r *Renderer) emit(res *Result, b deck.Block) error {
	var (
		html template.HTML
		err  error
	)
	switch b.Kind {
	case deck.KindTitle:
		html, err = fragment("title", b.Text)
	case deck.KindStyle:
		html = template.HTML(b.Markup)
	case deck.KindImagePair:
		var cols []imageView
		cols, err = r.images(b.Left, b.Right)
		if err == nil {
			html, err = fragment("columns", cols)
		}
	case deck.KindHeader:
		html, err = fragment("header", b.Text)
	case deck.KindSubheader:
		html, err = fragment("subheader", b.Text)
	case deck.KindParagraph:
		html, err = r.markdown(b.Text)
	case deck.KindDivider:
		html, err = r.markdown("* * *")
	case deck.KindFigure:
		var imgs []imageView
		imgs, err = r.images(b.Left)
		if err == nil {
			html, err = fragment("image", imgs[0])
		}
	default:
		err = fmt.Errorf("unknown block kind %d", b.Kind)
	}
	if err != nil {
		return err
	}
	res.Elements = append(res.Elements, Element{Kind: b.Kind, HTML: html})

	if b.Mirror != "" {
		md := deck.MirrorHeading(b.Mirror)
		side, err := r.markdown(md)
		if err != nil {
			return err
		}
		res.Sidebar = append(res.Sidebar, SidebarEntry{Markdown: md, HTML: side})
	}
	return nil
}

type imageView struct {
	URL       string
	Alt       string
	Caption   string
	FitColumn bool
}

func (r *Renderer) images(imgs ...deck.Image) ([]imageView, error) {
	out := make([]imageView, 0, len(imgs))
	for _, img := range imgs {
		u, err := r.assets.Resolve(img.Path)
		if err != nil {
			return nil, err
		}
		alt := img.Caption
		if alt == "" {
			alt = path.Base(img.Path)
		}
		out = append(out, imageView{URL: u, Alt: alt, Caption: img.Caption, FitColumn: img.FitColumn})
	}
	return out, nil
}

func (r *Renderer) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
