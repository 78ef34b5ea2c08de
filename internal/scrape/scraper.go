// Package scrape fetches a web page and reduces it to readable text so it
// can be fed to the quotation pipeline like an uploaded RFP.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	DefaultTitle    = "Scraped Document"
	maxBodyBytes    = 5 << 20
	defaultTimeout  = 10 * time.Second
	userAgentHeader = "rfp-quotation-scraper/1.0"
)

var ErrInvalidURL = errors.New("invalid url")

type Page struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	WordCount int       `json:"wordCount"`
	Links     int       `json:"links"`
	FetchedAt time.Time `json:"timestamp"`
}

type Scraper struct {
	client *http.Client
	now    func() time.Time
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgentHeader)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}

	page, err := Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	page.URL = target.String()
	page.FetchedAt = s.now()
	return page, nil
}

// Parse converts an HTML document into text. Script and style subtrees are
// dropped; block elements become line breaks.
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{Title: DefaultTitle}
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil {
					if title := strings.TrimSpace(n.FirstChild.Data); title != "" {
						page.Title = title
					}
				}
				return
			case "a":
				page.Links++
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "table", "section", "article":
				text.WriteString("\n")
			case "li":
				text.WriteString("\n- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	page.Content = normalize(text.String())
	page.WordCount = len(strings.Fields(page.Content))
	return page, nil
}

func normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
