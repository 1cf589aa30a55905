package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	xhtml "golang.org/x/net/html"

	"github.com/wudi/flipkit/curl"
	"github.com/wudi/flipkit/gesture"
	"github.com/wudi/flipkit/scripting"
)

func testPages(t *testing.T, n int) [][]byte {
	t.Helper()
	pages := make([][]byte, n)
	for i := range pages {
		img := image.NewRGBA(image.Rect(0, 0, 3, 4))
		img.Set(0, 0, color.RGBA{R: uint8(i * 50), A: 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
		pages[i] = buf.Bytes()
	}
	return pages
}

func TestHashPassphrase(t *testing.T) {
	want := "15a596e3c98c407e043751ff3b21ff0358a1bdfdf3fe948b1523893a8e5de2e8"
	if got := HashPassphrase("correct"); got != want {
		t.Fatalf("hash: got %s", got)
	}
}

func TestBuildValidation(t *testing.T) {
	b := &Builder{PassphraseHash: HashPassphrase("x")}
	if _, err := b.Build(context.Background()); !errors.Is(err, ErrNoPages) {
		t.Fatalf("no pages: %v", err)
	}
	b = &Builder{Pages: testPages(t, 1), PassphraseHash: "nope"}
	if _, err := b.Build(context.Background()); !errors.Is(err, ErrBadHash) {
		t.Fatalf("bad hash: %v", err)
	}
}

func TestBuildStructure(t *testing.T) {
	const pass = "tr0ub4dor&3"
	b := &Builder{
		Title:          "Quarterly <Report>",
		PassphraseHash: HashPassphrase(pass),
		Pages:          testPages(t, 3),
	}
	out, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	doc, err := xhtml.Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("artifact is not parseable html: %v", err)
	}
	var title string
	var scripts, canvases int
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			case "script":
				scripts++
			case "canvas":
				canvases++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "Quarterly <Report>" {
		t.Fatalf("title: %q", title)
	}
	if scripts != 1 || canvases != 1 {
		t.Fatalf("structure: %d scripts, %d canvases", scripts, canvases)
	}
	if got := strings.Count(string(out), "data:image/png;base64,"); got != 3 {
		t.Fatalf("embedded pages: %d", got)
	}
	if !strings.Contains(string(out), HashPassphrase(pass)) {
		t.Fatalf("passphrase hash missing")
	}
	if strings.Contains(string(out), pass) {
		t.Fatalf("plaintext passphrase leaked into the artifact")
	}
}

// The embedded script and the Go engine implement the same turn. Probe
// the script's math through goja and hold it against the Go functions.
func TestScriptMatchesEngine(t *testing.T) {
	eng := scripting.NewEngine()
	if _, err := eng.Execute(context.Background(), coreScript); err != nil {
		t.Fatalf("core script: %v", err)
	}

	num := func(expr string) float64 {
		t.Helper()
		val, err := eng.Execute(context.Background(), expr)
		if err != nil {
			t.Fatalf("eval %q: %v", expr, err)
		}
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
		t.Fatalf("eval %q: non-numeric %T", expr, val)
		return 0
	}

	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	if !near(num("FlipCore.EDGE_ZONE"), gesture.EdgeZone) {
		t.Fatalf("edge zone drifted")
	}
	if !near(num("FlipCore.COMMIT_FRACTION"), gesture.CommitFraction) {
		t.Fatalf("commit fraction drifted")
	}
	if !near(num("FlipCore.COMMIT_THRESHOLD"), gesture.CommitThresholdFraction) {
		t.Fatalf("commit threshold drifted")
	}

	const w = 520.0
	for _, tt := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		if !near(num(fmt.Sprintf("FlipCore.foldAmount(%g)", tt)), curl.FoldAmount(tt)) {
			t.Fatalf("foldAmount(%g) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.foldX(%g, 1, %g)", tt, w)), curl.FoldX(tt, curl.Forward, w)) {
			t.Fatalf("foldX(%g, forward) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.foldX(%g, -1, %g)", tt, w)), curl.FoldX(tt, curl.Backward, w)) {
			t.Fatalf("foldX(%g, backward) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.ctrlOffset(%g, %g)", tt, w)), curl.ControlOffset(tt, w)) {
			t.Fatalf("ctrlOffset(%g) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.curlWidth(%g, %g)", tt, w)), curl.CurlWidth(tt, w)) {
			t.Fatalf("curlWidth(%g) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.shadowIntensity(%g)", tt)), curl.ShadowIntensity(tt)) {
			t.Fatalf("shadowIntensity(%g) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.easeOut(%g)", tt)), curl.EaseOut(tt)) {
			t.Fatalf("easeOut(%g) drifted", tt)
		}
		if !near(num(fmt.Sprintf("FlipCore.easeInOut(%g)", tt)), curl.EaseInOut(tt)) {
			t.Fatalf("easeInOut(%g) drifted", tt)
		}
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":      "report_flipbook.html",
		"dir/report.pdf":  "report_flipbook.html",
		"no-extension":    "no-extension_flipbook.html",
		"":                "flipbook_flipbook.html",
		".hidden":         ".hidden_flipbook.html",
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
}
