// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/papersynth/internal/httputil"
	"github.com/pdiddy/papersynth/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultMaxResults = 15

// ArxivClient queries the arXiv export API, newest submissions first.
type ArxivClient struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
}

// NewArxivClient returns a client configured from cfg.
func NewArxivClient(cfg types.HTTPConfig) *ArxivClient {
	return &ArxivClient{
		Client:     &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// Name returns the backend identifier.
func (c *ArxivClient) Name() string { return "arxiv" }

// Search queries arXiv and returns one raw record per Atom entry.
func (c *ArxivClient) Search(ctx context.Context, req types.SearchRequest) ([]types.RawRecord, error) {
	q := BuildQuery(req.Query, req.Categories)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("search_query", q)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, httpReq, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.RawRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		// arXiv reports malformed queries as a single feed entry.
		if strings.Contains(entry.ID, "/api/errors") {
			return nil, fmt.Errorf("arXiv API error: %s", strings.TrimSpace(entry.Summary))
		}
		records = append(records, entry.record())
	}
	return records, nil
}

// BuildQuery combines free text and categories as
// "(cat:A OR cat:B) AND (query)". Either part may be empty.
func BuildQuery(query string, categories []string) string {
	query = strings.TrimSpace(query)

	var cats []string
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, "cat:"+c)
		}
	}
	catExpr := strings.Join(cats, " OR ")

	switch {
	case catExpr == "":
		return query
	case query == "":
		return "(" + catExpr + ")"
	default:
		return "(" + catExpr + ") AND (" + query + ")"
	}
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Authors         []arxivAuthor   `xml:"author"`
	PrimaryCategory arxivCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	Categories      []arxivCategory `xml:"category"`
	Links           []arxivLink     `xml:"link"`
	Comment         string          `xml:"http://arxiv.org/schemas/atom comment"`
	JournalRef      string          `xml:"http://arxiv.org/schemas/atom journal_ref"`
	DOI             string          `xml:"http://arxiv.org/schemas/atom doi"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// record converts the entry into the raw record shape the normalizer
// reads. Extra keys (updated, comment, journal_ref, doi) are carried along.
func (e arxivEntry) record() types.RawRecord {
	r := types.RawRecord{
		"entry_id":  strings.TrimSpace(e.ID),
		"title":     e.Title,
		"summary":   e.Summary,
		"published": strings.TrimSpace(e.Published),
		"updated":   strings.TrimSpace(e.Updated),
	}

	authors := make([]any, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, map[string]any{"name": a.Name})
	}
	r["authors"] = authors

	if e.PrimaryCategory.Term != "" {
		r["primary_category"] = e.PrimaryCategory.Term
	}
	cats := make([]any, 0, len(e.Categories))
	for _, c := range e.Categories {
		cats = append(cats, c.Term)
	}
	r["categories"] = cats

	for _, l := range e.Links {
		switch {
		case l.Title == "pdf" || l.Type == "application/pdf":
			r["pdf_url"] = l.Href
		case l.Rel == "alternate":
			r["link"] = l.Href
		}
	}

	for key, val := range map[string]string{"comment": e.Comment, "journal_ref": e.JournalRef, "doi": e.DOI} {
		if v := strings.TrimSpace(val); v != "" {
			r[key] = v
		}
	}
	return r
}
