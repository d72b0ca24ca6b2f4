package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ka2n/hiroi/api/source"
	"github.com/ka2n/hiroi/api/uri"
	"github.com/morikuni/failure/v2"
)

func remote(t *testing.T, raw string) source.Input {
	t.Helper()

	u, err := uri.ParseAbsolute(raw)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", raw, err)
	}
	return source.Remote(u)
}

func TestHTTP_Fetch(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<a href="/x">日本</a>`)
	}))
	defer srv.Close()

	h := NewHTTP(Config{UserAgent: "hiroi-test"})
	defer h.Close()

	data, err := h.Fetch(context.Background(), remote(t, srv.URL+"/page?q=1#frag"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if diff := cmp.Diff(`<a href="/x">日本</a>`, data.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if gotUA != "hiroi-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "hiroi-test")
	}
	if gotPath != "/page?q=1" {
		t.Errorf("request URI = %q, fragment must not be sent", gotPath)
	}
	if data.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", data.StatusCode)
	}
	if data.Input.Kind != source.KindRemoteURL {
		t.Errorf("Input.Kind = %q", data.Input.Kind)
	}
	if data.FetchedAt.IsZero() {
		t.Error("FetchedAt is not set")
	}
}

func TestHTTP_Fetch_Charset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<a href=\"/caf\xe9\">caf\xe9</a>"))
	}))
	defer srv.Close()

	data, err := NewHTTP(Config{}).Fetch(context.Background(), remote(t, srv.URL))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff(`<a href="/café">café</a>`, data.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTP_Fetch_Redirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<p>moved</p>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	data, err := NewHTTP(Config{}).Fetch(context.Background(), remote(t, srv.URL+"/old"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.HasSuffix(data.FinalURL, "/new") {
		t.Errorf("FinalURL = %q, want suffix /new", data.FinalURL)
	}
	if got := data.Input.URL.Pathname(); got != "/old" {
		t.Errorf("Input path = %q, want the requested address", got)
	}
}

func TestHTTP_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode ErrorCode
	}{
		{
			name: "Not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantCode: ErrStatus,
		},
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantCode: ErrStatus,
		},
		{
			name: "Empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantCode: ErrEmptyDocument,
		},
		{
			name: "Whitespace body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "\n\n  ")
			},
			wantCode: ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTP(Config{}).Fetch(context.Background(), remote(t, srv.URL))
			if !failure.Is(err, tt.wantCode) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantCode)
			}
		})
	}
}

type errorTransport struct{}

func (e *errorTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("simulated network error")
}

func TestHTTP_Fetch_NetworkError(t *testing.T) {
	h := NewHTTP(Config{Transport: &errorTransport{}})

	_, err := h.Fetch(context.Background(), remote(t, "https://example.com/"))
	if !failure.Is(err, ErrRequestFailed) {
		t.Errorf("Fetch() error = %v, want %v", err, ErrRequestFailed)
	}
}

func TestHTTP_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	h := NewHTTP(Config{Timeout: 50 * time.Millisecond})
	_, err := h.Fetch(context.Background(), remote(t, srv.URL))
	if !failure.Is(err, ErrRequestFailed) {
		t.Errorf("Fetch() error = %v, want %v", err, ErrRequestFailed)
	}
}

func TestHTTP_Fetch_MaxBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<a href=/a>a</a><a href=/b>b</a>")
	}))
	defer srv.Close()

	data, err := NewHTTP(Config{MaxBodySize: 16}).Fetch(context.Background(), remote(t, srv.URL))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff("<a href=/a>a</a>", data.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTP_Fetch_Unsupported(t *testing.T) {
	h := NewHTTP(Config{Transport: &errorTransport{}})

	for _, in := range []source.Input{
		{Kind: source.KindFile, Path: "index.html"},
		{Kind: source.KindStdin},
		{Kind: source.KindString, Content: "<a href=/x>"},
		{Kind: source.KindRemoteURL},
	} {
		_, err := h.Fetch(context.Background(), in)
		if !failure.Is(err, ErrUnsupportedSource) {
			t.Errorf("Fetch(%v) error = %v, want %v", in.Kind, err, ErrUnsupportedSource)
		}
	}
}

func TestHTTP_Fetch_RateLimitCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<p>ok</p>")
	}))
	defer srv.Close()

	h := NewHTTP(Config{RequestsPerSecond: 0.001})
	if _, err := h.Fetch(context.Background(), remote(t, srv.URL)); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Fetch(ctx, remote(t, srv.URL))
	if !failure.Is(err, ErrRequestFailed) {
		t.Errorf("second Fetch() error = %v, want %v", err, ErrRequestFailed)
	}
}

func TestHTTP_Close(t *testing.T) {
	var closed atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<p>ok</p>")
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateClosed {
			closed.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	h := NewHTTP(Config{})
	if _, err := h.Fetch(context.Background(), remote(t, srv.URL)); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if n := closed.Load(); n != 0 {
		t.Fatalf("connections closed before Close() = %d, want 0", n)
	}

	h.Close()

	deadline := time.Now().Add(2 * time.Second)
	for closed.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := closed.Load(); n != 1 {
		t.Errorf("connections closed after Close() = %d, want 1", n)
	}
}

func TestLocal_Fetch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	if err := os.WriteFile(file, []byte(`<a href="/from-file">f</a>`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Local{Stdin: strings.NewReader(`<a href="/from-stdin">s</a>`)}

	tests := []struct {
		name string
		in   source.Input
		want string
	}{
		{
			name: "File",
			in:   source.Input{Kind: source.KindFile, Path: file},
			want: `<a href="/from-file">f</a>`,
		},
		{
			name: "Stdin",
			in:   source.Input{Kind: source.KindStdin},
			want: `<a href="/from-stdin">s</a>`,
		},
		{
			name: "String",
			in:   source.Input{Kind: source.KindString, Content: `<a href="/literal">l</a>`},
			want: `<a href="/literal">l</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := l.Fetch(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, data.Content); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocal_Fetch_Errors(t *testing.T) {
	l := &Local{}

	tests := []struct {
		name     string
		in       source.Input
		wantCode ErrorCode
	}{
		{
			name:     "Missing file",
			in:       source.Input{Kind: source.KindFile, Path: filepath.Join(t.TempDir(), "missing.html")},
			wantCode: ErrRead,
		},
		{
			name:     "Remote",
			in:       source.Input{Kind: source.KindRemoteURL},
			wantCode: ErrUnsupportedSource,
		},
		{
			name:     "Empty string",
			in:       source.Input{Kind: source.KindString, Content: "   "},
			wantCode: ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Fetch(context.Background(), tt.in)
			if !failure.Is(err, tt.wantCode) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantCode)
			}
		})
	}
}
