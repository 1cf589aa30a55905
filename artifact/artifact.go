// Package artifact packages rasterized pages, a title and a passphrase
// hash into a single self-contained HTML file: the downloadable,
// password-gated flipbook.
package artifact

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"text/template"

	_ "embed"

	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/scripting"
	"github.com/wudi/flipkit/viewer"
)

var (
	//go:embed template.html
	shellTemplate string
	//go:embed core.js
	coreScript string
	//go:embed viewer.js
	viewerScript string
)

var (
	ErrNoPages   = errors.New("artifact: no pages")
	ErrBadHash   = errors.New("artifact: passphrase hash is not hex sha-256")
	ErrSelfCheck = errors.New("artifact: embedded script self-check failed")
)

const DefaultTitle = "Flipbook"

// HashPassphrase computes the one-way hash embedded in the artifact.
// It must stay in lockstep with the viewer's verifier.
func HashPassphrase(pass string) string { return viewer.HashPassphrase(pass) }

// Builder assembles one artifact. Pages are encoded raster images in
// document order; PassphraseHash comes from HashPassphrase.
type Builder struct {
	Title          string
	PassphraseHash string
	Pages          [][]byte
	Logger         observability.Logger
	Engine         scripting.Engine
}

// selfCheck evaluates the embedded pure core and proves a few identities
// the Go engine relies on, so a broken template edit fails the build
// instead of shipping a dead artifact.
func (b *Builder) selfCheck(ctx context.Context) error {
	eng := b.Engine
	if eng == nil {
		eng = scripting.NewEngine()
	}
	probe := coreScript + `
;[
  FlipCore.foldAmount(0) === 0,
  Math.abs(FlipCore.foldX(0, 1, 520) - 520) < 1e-9,
  Math.abs(FlipCore.foldX(0, -1, 520)) < 1e-9,
  Math.abs(FlipCore.easeInOut(1) - 1) < 1e-9,
  Math.abs(FlipCore.progress(45, 100) - 0.5) < 1e-9,
  FlipCore.commitDistance(100) === 22
].every(function (x) { return x; })`
	val, err := eng.Execute(ctx, probe)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSelfCheck, err)
	}
	ok, isBool := val.(bool)
	if !isBool || !ok {
		return fmt.Errorf("%w: probe returned %v", ErrSelfCheck, val)
	}
	return nil
}

func isHexSHA256(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func dataURL(page []byte) string {
	mime := http.DetectContentType(page)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(page)
}

// Build renders the single-file artifact.
func (b *Builder) Build(ctx context.Context) ([]byte, error) {
	if len(b.Pages) == 0 {
		return nil, ErrNoPages
	}
	if !isHexSHA256(b.PassphraseHash) {
		return nil, ErrBadHash
	}
	log := b.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	title := b.Title
	if title == "" {
		title = DefaultTitle
	}

	if err := b.selfCheck(ctx); err != nil {
		return nil, err
	}

	urls := make([]string, len(b.Pages))
	for i, p := range b.Pages {
		urls[i] = `"` + dataURL(p) + `"`
	}

	tmpl, err := template.New("artifact").Parse(shellTemplate)
	if err != nil {
		return nil, fmt.Errorf("artifact: parse template: %w", err)
	}
	var out bytes.Buffer
	err = tmpl.Execute(&out, map[string]string{
		"Title":          html.EscapeString(title),
		"PassphraseHash": strings.ToLower(b.PassphraseHash),
		"ImagesJS":       "[" + strings.Join(urls, ",") + "]",
		"CoreJS":         coreScript,
		"ViewerJS":       viewerScript,
	})
	if err != nil {
		return nil, fmt.Errorf("artifact: render template: %w", err)
	}
	log.Info("artifact built",
		observability.Int("pages", len(b.Pages)),
		observability.Int(observability.MetricArtifactBytes, out.Len()))
	return out.Bytes(), nil
}

// Filename derives the attachment name from the uploaded file's name.
func Filename(upload string) string {
	base := upload
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "flipbook"
	}
	return base + "_flipbook.html"
}
