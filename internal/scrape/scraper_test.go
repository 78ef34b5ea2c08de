package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePage = `<html><head><title> Tender 42 </title><style>body{}</style></head>
<body>
<h1>Street lighting tender</h1>
<script>var x = "cable";</script>
<p>COMPANY: City Works</p>
<ul><li>40 LED street light 50W IP65</li><li>200 meter cable</li></ul>
<a href="/a">one</a> <a href="/b">two</a>
</body></html>`

func TestParse(t *testing.T) {
	page, err := Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if page.Title != "Tender 42" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.Links != 2 {
		t.Fatalf("links = %d, want 2", page.Links)
	}
	if strings.Contains(page.Content, "var x") || strings.Contains(page.Content, "body{}") {
		t.Fatalf("script/style leaked into content: %q", page.Content)
	}
	if !strings.Contains(page.Content, "COMPANY: City Works\n") {
		t.Fatalf("content = %q", page.Content)
	}
	if !strings.Contains(page.Content, "- 40 LED street light 50W IP65") {
		t.Fatalf("content = %q", page.Content)
	}
	if page.WordCount != len(strings.Fields(page.Content)) {
		t.Fatalf("word count = %d", page.WordCount)
	}
}

func TestParseDefaultTitle(t *testing.T) {
	page, err := Parse(strings.NewReader("<p>hello</p>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if page.Title != DefaultTitle {
		t.Fatalf("title = %q", page.Title)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	s := New(time.Second)
	page, err := s.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.URL != server.URL || page.Title != "Tender 42" || page.FetchedAt.IsZero() {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if _, err := New(time.Second).Fetch(context.Background(), server.URL); err == nil {
		t.Fatalf("expected error for 410")
	}
}

func TestFetchRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "not a url", "http://"} {
		if _, err := New(time.Second).Fetch(context.Background(), raw); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("Fetch(%q) err = %v, want ErrInvalidURL", raw, err)
		}
	}
}
