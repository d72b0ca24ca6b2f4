package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/api/extract"
	"github.com/morikuni/failure/v2"
)

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestErrorPolicyFlag(t *testing.T) {
	tests := []struct {
		value    string
		want     api.ErrorPolicy
		wantCode any
	}{
		{value: "abort", want: api.AbortOnError},
		{value: "skip", want: api.SkipOnError},
		{value: "SKIP", want: api.SkipOnError},
		{value: "retry", wantCode: InvalidErrorPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var f errorPolicyFlag
			err := f.Set(tt.value)
			if tt.wantCode != nil {
				if !failure.Is(err, tt.wantCode) {
					t.Errorf("Set(%q) error = %v, want %v", tt.value, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error = %v", tt.value, err)
			}
			if f.Policy != tt.want {
				t.Errorf("Policy = %q, want %q", f.Policy, tt.want)
			}
			if f.String() != tt.want.String() {
				t.Errorf("String() = %q, want %q", f.String(), tt.want)
			}
		})
	}

	var unset errorPolicyFlag
	if unset.String() != "abort" {
		t.Errorf("default String() = %q, want abort", unset.String())
	}
}

func TestExtractCommand(t *testing.T) {
	html := `<pre><a href="/code">c</a></pre><p>see https://example.com/docs</p><img src="logo.png">`

	tests := []struct {
		name string
		args []string
		want []extract.Occurrence
	}{
		{
			name: "Defaults include text links and verbatim",
			args: []string{"extract", "--json", html},
			want: []extract.Occurrence{
				{Text: "/code", Element: "a", Attribute: "href"},
				{Text: "https://example.com/docs"},
				{Text: "logo.png", Element: "img", Attribute: "src"},
			},
		},
		{
			name: "Attributes only",
			args: []string{"extract", "--json", "--text-links=false", "--verbatim=false", html},
			want: []extract.Occurrence{
				{Text: "logo.png", Element: "img", Attribute: "src"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractTextLinks, extractVerbatim = true, true

			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			var got []extract.Occurrence
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON output %q: %v", out, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractCommand_Stdin(t *testing.T) {
	extractJSON, extractTextLinks, extractVerbatim = false, true, true

	out, err := execute(t, `<a href="/from-stdin">x</a>`, "extract", "-")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(out, "`/from-stdin`") {
		t.Errorf("output does not list the link:\n%s", out)
	}
}

func TestExtractCommand_Remote(t *testing.T) {
	_, err := execute(t, "", "extract", "https://example.com/")
	if !failure.Is(err, UnsupportedSource) {
		t.Errorf("execute() error = %v, want %v", err, UnsupportedSource)
	}
}

func TestCollectCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			io.WriteString(w, `<a href="/x">x</a><a href="https://other.com/y">y</a>`)
		case "/broken":
			io.WriteString(w, `<a href="not a url ::: bad">bad</a><a href="/ok">ok</a>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	type output struct {
		Document string     `json:"document"`
		Links    []api.Link `json:"links"`
		Code     string     `json:"code"`
	}

	t.Run("Single document", func(t *testing.T) {
		collectOnError = errorPolicyFlag{}

		out, err := execute(t, "", "collect", "--json", srv.URL+"/page")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		var got []output
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output %q: %v", out, err)
		}
		if len(got) != 1 || len(got[0].Links) != 2 {
			t.Fatalf("unexpected output: %s", out)
		}
		if got[0].Links[0].URL.Path != "/x" || got[0].Links[1].URL.Host != "other.com" {
			t.Errorf("unexpected links: %+v", got[0].Links)
		}
	})

	t.Run("Resolution error aborts", func(t *testing.T) {
		collectOnError = errorPolicyFlag{}

		out, err := execute(t, "", "collect", "--json", srv.URL+"/broken")
		if !failure.Is(err, api.ErrResolution) {
			t.Fatalf("execute() error = %v, want %v", err, api.ErrResolution)
		}
		var got []output
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output %q: %v", out, err)
		}
		if got[0].Code != string(api.ErrResolution) || len(got[0].Links) != 0 {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("Resolution error skipped", func(t *testing.T) {
		collectOnError = errorPolicyFlag{}

		out, err := execute(t, "", "collect", "--json", "--on-error", "skip", srv.URL+"/broken")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		var got []output
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output %q: %v", out, err)
		}
		if len(got[0].Links) != 1 || got[0].Links[0].URL.Path != "/ok" {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("Several documents", func(t *testing.T) {
		collectOnError = errorPolicyFlag{}
		collectJSON = false

		out, err := execute(t, "", "collect", srv.URL+"/page", srv.URL+"/missing")
		if !failure.Is(err, CollectFailed) {
			t.Errorf("execute() error = %v, want %v", err, CollectFailed)
		}
		if !strings.Contains(out, "# "+srv.URL+"/page") || !strings.Contains(out, "**Error:**") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("Local input is rejected", func(t *testing.T) {
		_, err := execute(t, "", "collect", "index.html")
		if !failure.Is(err, UnsupportedSource) {
			t.Errorf("execute() error = %v, want %v", err, UnsupportedSource)
		}
	})
}

func TestLinksMarkdown(t *testing.T) {
	link := api.Link{Element: "a", Attribute: "href"}
	link.URL.Scheme, link.URL.Host, link.URL.Authority, link.URL.Path = "https", "example.com", "example.com", "/a|b"

	got := linksMarkdown(api.Result{Document: "https://example.com/", Links: []api.Link{link}})
	want := "# https://example.com/\n\n" +
		"1 links\n\n" +
		"| # | element | attribute | host | url |\n" +
		"| --- | --- | --- | --- | --- |\n" +
		"| 1 | `a` | `href` | `example.com` | `https://example.com/a\\|b` |\n\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("linksMarkdown() mismatch (-want +got):\n%s", diff)
	}

	got = linksMarkdown(api.Result{Document: "https://example.com/", Err: errors.New("boom")})
	if !strings.Contains(got, "**Error:** boom") {
		t.Errorf("linksMarkdown() with error = %q", got)
	}
}

func TestOccurrencesMarkdown(t *testing.T) {
	got := occurrencesMarkdown("<string>", []extract.Occurrence{{Text: "https://example.com"}})
	if !strings.Contains(got, "| 1 | - | - | `https://example.com` |") {
		t.Errorf("occurrencesMarkdown() = %q", got)
	}
	if got := occurrencesMarkdown("-", nil); !strings.Contains(got, "No links found.") {
		t.Errorf("occurrencesMarkdown(nil) = %q", got)
	}
}

func TestElementsCommand(t *testing.T) {
	out, err := execute(t, "", "elements")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, want := range []string{"(any)", "href, src, srcset", "object     classid, codebase, data", "pre"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "CLI code",
			err:  failure.New(UnsupportedSource, failure.Message("not remote")),
			want: "not remote (UnsupportedSource)",
		},
		{
			name: "API code",
			err: failure.Wrap(failure.New(api.ErrFetch, failure.Message("fetch failed")),
				failure.WithCode(CollectFailed)),
			want: "fetch failed (CollectFailed)",
		},
		{
			name: "API code unwrapped",
			err:  failure.New(api.ErrInvalidInput, failure.Message("bad address")),
			want: "bad address (InvalidInput)",
		},
		{
			name: "No code",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage_ExtractRemote(t *testing.T) {
	_, err := execute(t, "", "extract", "https://example.com/")
	if got := UserMessage(err); !strings.HasSuffix(got, "(UnsupportedSource)") {
		t.Errorf("UserMessage() = %q, want the UnsupportedSource code", got)
	}
}
