// Package export writes the deck as a static site with the same URL layout
// the server uses: index.html, pages/<slug>/index.html, assets/ and static/.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/assets"
	"github.com/vesaa/ragdeck/internal/deck"
	"github.com/vesaa/ragdeck/internal/render"
	"github.com/vesaa/ragdeck/webui"
)

// Options configure an export run.
type Options struct {
	OutDir  string
	BaseURL string
}

// Report summarizes what an export wrote.
type Report struct {
	Pages  []string
	Assets []string
}

// Site renders every page into opts.OutDir on out and copies the images it
// references. It stops at the first page that fails to render.
func Site(out afero.Fs, resolver *assets.Resolver, opts Options, log *zap.Logger) (*Report, error) {
	if err := out.MkdirAll(opts.OutDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", opts.OutDir, err)
	}

	renderer := render.New(resolver)
	report := &Report{}
	copied := make(map[string]bool)

	for _, p := range deck.Pages() {
		res, err := renderer.Render(p)
		if err != nil {
			return report, fmt.Errorf("page %s: %w", p.Slug(), err)
		}

		var buf bytes.Buffer
		if err := render.WriteDocument(&buf, res, render.DocumentOptions{BaseURL: opts.BaseURL}); err != nil {
			return report, fmt.Errorf("page %s: %w", p.Slug(), err)
		}

		rel := pagePath(p.Slug())
		if err := writeFile(out, filepath.Join(opts.OutDir, rel), buf.Bytes()); err != nil {
			return report, err
		}
		report.Pages = append(report.Pages, rel)
		log.Debug("exported page", zap.String("page", p.Slug()), zap.String("path", rel))

		for _, img := range p.Images() {
			name, err := resolver.Locate(img.Path)
			if err != nil {
				return report, err
			}
			if copied[name] {
				continue
			}
			if err := copyAsset(out, resolver, name, filepath.Join(opts.OutDir, "assets", filepath.FromSlash(name))); err != nil {
				return report, err
			}
			copied[name] = true
			report.Assets = append(report.Assets, name)
		}
	}

	css, err := webui.Stylesheet()
	if err != nil {
		return report, fmt.Errorf("reading embedded stylesheet: %w", err)
	}
	if err := writeFile(out, filepath.Join(opts.OutDir, "static", "page.css"), css); err != nil {
		return report, err
	}
	return report, nil
}

func pagePath(slug string) string {
	if slug == deck.DefaultSlug {
		return "index.html"
	}
	return path.Join("pages", slug, "index.html")
}

func writeFile(out afero.Fs, dst string, data []byte) error {
	if err := out.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dst), err)
	}
	if err := afero.WriteFile(out, dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func copyAsset(out afero.Fs, resolver *assets.Resolver, name, dst string) error {
	src, err := resolver.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open asset %s: %w", name, err)
	}
	defer src.Close()

	if err := out.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dst), err)
	}
	f, err := out.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", name, dst, err)
	}
	return f.Close()
}
