// Package assets resolves presentation images against a configurable base
// directory and serves them over HTTP.
package assets

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned for any image that cannot be resolved to a
// readable regular file under the base dir.
var ErrNotFound = errors.New("asset not found")

// Resolver maps image paths relative to a base dir onto files and URLs.
type Resolver struct {
	fs        afero.Fs
	baseDir   string
	urlPrefix string
}

// New roots a resolver at baseDir inside fsys. URLs returned by Resolve
// start with urlPrefix, e.g. "/assets".
func New(fsys afero.Fs, baseDir, urlPrefix string) *Resolver {
	if baseDir == "" {
		baseDir = "."
	}
	rooted := fsys
	if filepath.Clean(baseDir) != "." {
		rooted = afero.NewBasePathFs(fsys, baseDir)
	}
	return &Resolver{
		fs:        rooted,
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// BaseDir reports the directory images are resolved against.
func (r *Resolver) BaseDir() string { return r.baseDir }

// Resolve checks that p names a readable regular file and returns its URL.
func (r *Resolver) Resolve(p string) (string, error) {
	name, err := r.Locate(p)
	if err != nil {
		return "", err
	}
	return r.URL(name), nil
}

// Locate returns the slash-separated name of p inside the base dir. Hangul
// file names are tried in both NFC and NFD form, since macOS stores the
// decomposed spelling.
func (r *Resolver) Locate(p string) (string, error) {
	clean, err := cleanRelative(p)
	if err != nil {
		return "", err
	}

	var firstErr error
	for _, cand := range candidates(clean) {
		err := r.readable(cand)
		if err == nil {
			return cand, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", fmt.Errorf("%w: %s: %w", ErrNotFound, p, firstErr)
}

// URL builds the public URL of a located name.
func (r *Resolver) URL(name string) string {
	segs := strings.Split(name, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return r.urlPrefix + "/" + strings.Join(segs, "/")
}

// Check resolves every path and joins the failures.
func (r *Resolver) Check(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if _, err := r.Resolve(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens a located name for reading.
func (r *Resolver) Open(name string) (afero.File, error) {
	return r.fs.Open(name)
}

// FileSystem exposes the base dir for http.FileServer and gin.StaticFS.
func (r *Resolver) FileSystem() http.FileSystem {
	return afero.NewHttpFs(r.fs)
}

func (r *Resolver) readable(name string) error {
	info, err := r.fs.Stat(name)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", name)
	}
	f, err := r.fs.Open(name)
	if err != nil {
		return err
	}
	return f.Close()
}

func cleanRelative(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || hasVolume(slashed) {
		return "", fmt.Errorf("%w: %s: absolute paths are not relocatable", ErrNotFound, p)
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s: escapes the asset dir", ErrNotFound, p)
	}
	return clean, nil
}

// hasVolume catches Windows drive paths such as "C:/Users/..." on any OS.
func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z'))
}

func candidates(name string) []string {
	nfc := norm.NFC.String(name)
	nfd := norm.NFD.String(name)
	if nfc == nfd {
		return []string{nfc}
	}
	return []string{nfc, nfd}
}
