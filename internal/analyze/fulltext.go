// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/papersynth/internal/httputil"
	"github.com/pdiddy/papersynth/pkg/types"
)

// ar5ivBase is the ar5iv HTML rendering endpoint. Declared as a var so
// tests can substitute an httptest server.
var ar5ivBase = "https://ar5iv.labs.arxiv.org/html/"

// maxHTMLBytes bounds the HTML read from ar5iv.
const maxHTMLBytes = 20 << 20

// TextSource supplies the full text of a paper.
type TextSource interface {
	FullText(ctx context.Context, arxivID string) (string, error)
}

// Ar5ivSource fetches the ar5iv HTML rendering of a paper and converts it
// to Markdown.
type Ar5ivSource struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int

	// MaxChars truncates the Markdown; 0 keeps it whole.
	MaxChars int

	converter *md.Converter
}

// NewAr5ivSource returns a source configured from the shared HTTP settings.
func NewAr5ivSource(cfg types.HTTPConfig, maxChars int) *Ar5ivSource {
	return &Ar5ivSource{
		Client:     &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		MaxChars:   maxChars,
	}
}

// FullText downloads and converts the paper. An empty conversion is an error.
func (s *Ar5ivSource) FullText(ctx context.Context, arxivID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ar5ivBase+arxivID, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("fetching ar5iv %s: %w", arxivID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ar5iv returned HTTP %d for %s", resp.StatusCode, arxivID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", fmt.Errorf("reading ar5iv %s: %w", arxivID, err)
	}

	if s.converter == nil {
		s.converter = md.NewConverter("", true, nil)
		s.converter.Remove("script", "style", "nav", "header", "footer")
	}
	markdown, err := s.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("converting ar5iv %s: %w", arxivID, err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", fmt.Errorf("ar5iv %s: %w", arxivID, ErrNoText)
	}
	return truncateRunes(markdown, s.MaxChars), nil
}

// truncateRunes cuts s to at most n runes. n <= 0 returns s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
