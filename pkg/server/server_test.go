package server

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"mime"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/net/html"

	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/config"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
	"github.com/matzehuels/coursepaper/pkg/metrics"
)

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *metrics.Registry) {
	t.Helper()
	m := metrics.NewRegistry()
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithMetrics(m)}, opts...)
	s, err := New(config.Default(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts, m
}

// noRedirect returns a client that hands back redirects instead of following them.
func noRedirect(ts *httptest.Server) *http.Client {
	c := ts.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp, body
}

// images returns the <img> elements inside the element with the given id.
func images(t *testing.T, page []byte, containerID string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	container := export.FindByID(doc, containerID)
	if container == nil {
		t.Fatalf("page has no #%s", containerID)
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestPageHasTwoFigures(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.Client(), ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(body, []byte("Скачать в Word")) {
		t.Error("page has no export button")
	}

	imgs := images(t, body, export.DefaultContainerID)
	if len(imgs) != 2 {
		t.Fatalf("found %d figures, want 2", len(imgs))
	}

	for _, img := range imgs {
		if w, h := attr(img, "width"), attr(img, "height"); w != "600" || h != "400" {
			t.Errorf("figure size = %sx%s, want 600x400", w, h)
		}

		src := attr(img, "src")
		resp, data := get(t, ts.Client(), ts.URL+src)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", src, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("GET %s Content-Type = %q", src, ct)
		}

		im, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %s: %v", src, err)
		}
		if b := im.Bounds(); b.Dx() != 600 || b.Dy() != 400 {
			t.Errorf("%s bounds = %v, want 600x400", src, b)
		}

		painted := 0
		b := im.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += 4 {
			for x := b.Min.X; x < b.Max.X; x += 4 {
				if _, _, _, a := im.At(x, y).RGBA(); a != 0 {
					painted++
				}
			}
		}
		if painted == 0 {
			t.Errorf("%s has no painted pixels", src)
		}
	}
}

var downloadPath = regexp.MustCompile(`^/downloads/[0-9a-f-]{36}$`)

func TestExportDownloadOnce(t *testing.T) {
	ts, m := newTestServer(t)
	client := noRedirect(ts)

	resp, _ := get(t, client, ts.URL+"/export")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("GET /export status = %d, want 303", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !downloadPath.MatchString(loc) {
		t.Fatalf("Location = %q", loc)
	}

	resp, body := get(t, client, ts.URL+loc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != export.ContentType {
		t.Errorf("Content-Type = %q, want %q", ct, export.ContentType)
	}
	disp, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if disp != "attachment" || params["filename"] != export.DefaultFilename {
		t.Errorf("Content-Disposition = %s %v", disp, params)
	}

	if !bytes.HasPrefix(body, []byte("\ufeff")) {
		t.Error("document does not start with a BOM")
	}
	for _, want := range []string{
		"urn:schemas-microsoft-com:office:word",
		"<title>" + export.DefaultTitle + "</title>",
		"ВВЕДЕНИЕ",
		"data:image/png;base64,",
	} {
		if !bytes.Contains(body, []byte(want)) {
			t.Errorf("document missing %q", want)
		}
	}

	resp, _ = get(t, client, ts.URL+loc)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second download status = %d, want 404", resp.StatusCode)
	}

	if v := testutil.ToFloat64(m.ExportsTotal.WithLabelValues(metrics.ExportOK)); v != 1 {
		t.Errorf("exports ok = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.DownloadsTotal.WithLabelValues("missing")); v != 1 {
		t.Errorf("missing downloads = %v, want 1", v)
	}
}

func TestExportPosted(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirect(ts)

	post := func(body string) *http.Response {
		t.Helper()
		resp, err := client.Post(ts.URL+"/export", "text/html", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /export: %v", err)
		}
		resp.Body.Close()
		return resp
	}

	if resp := post(`<html><body><p>no container</p></body></html>`); resp.StatusCode != http.StatusNoContent {
		t.Errorf("missing container status = %d, want 204", resp.StatusCode)
	}

	resp := post(`<div id="document-content"><h1>Заголовок</h1><p>Текст <b>жирный</b></p></div>`)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	_, body := get(t, client, ts.URL+resp.Header.Get("Location"))
	if !bytes.Contains(body, []byte(`<h1>Заголовок</h1><p>Текст <b>жирный</b></p>`)) {
		t.Errorf("container markup not exported verbatim:\n%s", body)
	}
}

func TestExportWithNullCache(t *testing.T) {
	ts, _ := newTestServer(t, WithCache(cache.NewNullCache()))
	client := noRedirect(ts)

	resp, _ := get(t, client, ts.URL+"/export")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("GET /export status = %d", resp.StatusCode)
	}
	resp, _ = get(t, client, ts.URL+resp.Header.Get("Location"))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("download status = %d, want 200", resp.StatusCode)
	}
}

func TestDownloadUnknown(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, id := range []string{"nope", "2f0e1f3c-95a5-4b6a-9d36-6c0a5b3a1c77"} {
		resp, _ := get(t, ts.Client(), ts.URL+"/downloads/"+id)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET /downloads/%s status = %d, want 404", id, resp.StatusCode)
		}
	}
}

func TestDiagrams(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path     string
		status   int
		ctype    string
		contains string
	}{
		{"/diagrams/transport.svg", 200, "image/svg+xml", "<svg"},
		{"/diagrams/project.svg", 200, "image/svg+xml", "<polygon"},
		{"/diagrams/transport.dot", 200, "text/vnd.graphviz; charset=utf-8", "graph"},
		{"/diagrams/project.json", 200, "application/json", `"ops"`},
		{"/diagrams/transport.png?scale=2", 200, "image/png", "PNG"},
		{"/diagrams/unknown.png", 404, "", ""},
		{"/diagrams/transport.gif", 400, "", ""},
		{"/diagrams/transport", 400, "", ""},
		{"/diagrams/Transport.png", 400, "", ""},
		{"/diagrams/transport.png?scale=9", 400, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.Client(), ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.ctype != "" && resp.Header.Get("Content-Type") != tt.ctype {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.ctype)
			}
			if !bytes.Contains(body, []byte(tt.contains)) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestDiagramCached(t *testing.T) {
	ts, m := newTestServer(t)

	_, first := get(t, ts.Client(), ts.URL+"/diagrams/transport.png")
	_, second := get(t, ts.Client(), ts.URL+"/diagrams/transport.png")
	if !bytes.Equal(first, second) {
		t.Error("cached figure differs from the rendered one")
	}

	if v := testutil.ToFloat64(m.DiagramRendersTotal.WithLabelValues("transport", "png")); v != 1 {
		t.Errorf("renders = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.DiagramCacheHits.WithLabelValues("transport", "png")); v != 1 {
		t.Errorf("cache hits = %v, want 1", v)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.Client(), ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte(`"status":"ok"`)) {
		t.Errorf("GET /healthz = %d %s", resp.StatusCode, body)
	}

	get(t, ts.Client(), ts.URL+"/downloads/2f0e1f3c-95a5-4b6a-9d36-6c0a5b3a1c77")

	_, body = get(t, ts.Client(), ts.URL+"/metrics")
	want := `coursepaper_http_requests_total{method="GET",route="/downloads/{id}",status="404"} 1`
	if !bytes.Contains(body, []byte(want)) {
		t.Errorf("metrics missing %q", want)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Scale = 0
	if _, err := New(cfg); err == nil {
		t.Error("New should reject an invalid config")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeBlobNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeDiagramNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.Wrap(errors.ErrCodeExport, &http.MaxBytesError{Limit: 1}, "parse"), http.StatusRequestEntityTooLarge},
		{errors.New(errors.ErrCodeRender, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestServeShutdown(t *testing.T) {
	s, err := New(config.Default(), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeEvictsUnfetchedExports(t *testing.T) {
	cfg := config.Default()
	cfg.Server.BlobTTL = config.Duration(10 * time.Millisecond)
	mem := cache.NewMemoryCache()

	s, err := New(cfg, WithCache(mem), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	base := "http://" + ln.Addr().String()
	for i := 0; i < 20; i++ {
		resp, _ := get(t, client, base+"/export")
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("GET /export status = %d, want 303", resp.StatusCode)
		}
	}

	// Only the two cached figures outlive the blob TTL.
	deadline := time.Now().Add(5 * time.Second)
	for mem.Len() > 2 {
		if time.Now().After(deadline) {
			t.Fatalf("entries after blob TTL = %d, want 2", mem.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
