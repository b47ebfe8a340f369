package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxMenuChars bounds the text handed to the enricher
const maxMenuChars = 4000

// Scraper pulls menu-ish text from a restaurant's own website. Everything
// here is best-effort signal for enrichment; every failure path returns an
// error the caller is expected to swallow.
type Scraper struct {
	client *http.Client
}

// NewScraper creates a new website scraper
func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchMenuText fetches the URL and extracts menu-relevant text content
func (s *Scraper) FetchMenuText(ctx context.Context, url string) (string, error) {
	log.Printf("[Scraper] Fetching website: %s", url)

	content, err := s.directScrape(ctx, url)
	if err == nil && len(content) > 50 {
		return content, nil
	}
	log.Printf("[Scraper] Direct scrape failed or insufficient content, trying Jina Reader...")

	// Fallback: Jina AI Reader renders JS-heavy restaurant sites
	content, err = s.jinaReaderScrape(ctx, url)
	if err == nil && len(content) > 50 {
		return content, nil
	}

	return "", fmt.Errorf("all scraping methods failed")
}

// directScrape uses goquery to extract content from static HTML
func (s *Scraper) directScrape(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers avoid trivial 403 blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	var sb strings.Builder

	// Menu sections first, generic content containers after
	selectors := []string{".menu", "#menu", "[class*='menu']", "article", "main", ".content"}
	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			selection.Find("p, h1, h2, h3, h4, li").Each(func(i int, s *goquery.Selection) {
				text := strings.TrimSpace(s.Text())
				if len(text) > 3 {
					sb.WriteString(text)
					sb.WriteString("\n")
				}
			})
			if sb.Len() > 0 {
				break
			}
		}
	}

	// Fallback: all list items and paragraphs
	if sb.Len() == 0 {
		doc.Find("body li, body p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 10 {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		})
	}

	return truncate(strings.TrimSpace(sb.String())), nil
}

// jinaReaderScrape uses Jina AI Reader to render JS and extract content
func (s *Scraper) jinaReaderScrape(ctx context.Context, url string) (string, error) {
	jinaURL := "https://r.jina.ai/" + url

	req, err := http.NewRequestWithContext(ctx, "GET", jinaURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create jina request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("jina request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("jina status code error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read jina response: %w", err)
	}

	return truncate(string(body)), nil
}

func truncate(content string) string {
	if len(content) > maxMenuChars {
		return content[:maxMenuChars]
	}
	return content
}
