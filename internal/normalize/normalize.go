// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw search results into PaperRecords.
//
// Normalization never fails: unrecognized or malformed fields are left nil
// so one odd record cannot block a batch.
package normalize

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/papersynth/pkg/types"
)

const (
	arxivAbsBase  = "https://arxiv.org/abs/"
	ar5ivHTMLBase = "https://ar5iv.labs.arxiv.org/html/"
)

// allowedPunct is the punctuation kept in cleaned abstracts.
const allowedPunct = ".,;:!?-()[]"

// Normalize builds a PaperRecord from raw. seq is the record's 1-based
// position in the fetch result and now stamps FetchedDate.
func Normalize(raw types.RawRecord, seq int, now time.Time) types.PaperRecord {
	p := types.PaperRecord{
		Seq:         seq,
		FetchedDate: now,
	}

	if id := identifier(raw); id != "" {
		p.ArxivID = types.Ptr(id)
		p.ArxivURL = types.Ptr(arxivAbsBase + id)
		p.Ar5ivURL = types.Ptr(ar5ivHTMLBase + id)
	}

	if v, ok := raw["published"]; ok {
		p.Published = timestamp(v)
	}
	if s, ok := stringField(raw, "title"); ok {
		p.Title = types.Ptr(strings.Join(strings.Fields(s), " "))
	}
	if v, ok := raw["authors"]; ok {
		p.Authors = authorNames(v)
	}
	if s, ok := stringField(raw, "summary"); ok {
		p.Summary = types.Ptr(CleanAbstract(s))
	}
	if s, ok := stringField(raw, "primary_category"); ok {
		p.PrimaryCategory = types.Ptr(strings.TrimSpace(s))
	}
	if v, ok := raw["categories"]; ok {
		p.Categories = stringList(v)
	}
	if s, ok := stringField(raw, "link"); ok {
		p.Link = types.Ptr(s)
	}
	if s, ok := stringField(raw, "pdf_url"); ok {
		p.PDFURL = types.Ptr(s)
	}

	return p
}

// NormalizeAll normalizes records in order, numbering them from 1.
func NormalizeAll(raws []types.RawRecord, now time.Time) []types.PaperRecord {
	papers := make([]types.PaperRecord, 0, len(raws))
	for i, raw := range raws {
		papers = append(papers, Normalize(raw, i+1, now))
	}
	return papers
}

// identifier takes the final path segment of the composite entry id
// (e.g. "http://arxiv.org/abs/2401.00001v2" → "2401.00001v2").
func identifier(raw types.RawRecord) string {
	ref, ok := stringField(raw, "entry_id")
	if !ok {
		ref, ok = stringField(raw, "id")
	}
	if !ok {
		return ""
	}
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return ref
}

// CleanAbstract collapses whitespace runs to one space and drops characters
// other than letters, digits, underscore, whitespace and allowedPunct.
func CleanAbstract(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	b.Grow(len(collapsed))
	for _, r := range collapsed {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.IsSpace(r) ||
			strings.ContainsRune(allowedPunct, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// timestamp formats v as RFC 3339. Unparseable values stay nil.
func timestamp(v any) *string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return types.Ptr(t.Format(time.RFC3339))
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return types.Ptr(t.Format(time.RFC3339))
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return types.Ptr(parsed.Format(time.RFC3339))
			}
		}
	}
	return nil
}

// authorNames accepts a list of strings, a list of {"name": ...} objects,
// a list of fmt.Stringers, or a single comma-separated string.
func authorNames(v any) []string {
	switch a := v.(type) {
	case string:
		var names []string
		for _, part := range strings.Split(a, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		return names
	case []string:
		return trimAll(a)
	case []any:
		var names []string
		for _, item := range a {
			if name := authorName(item); name != "" {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}

func authorName(item any) string {
	switch x := item.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		if name, ok := x["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	case map[string]string:
		return strings.TrimSpace(x["name"])
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	}
	return ""
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return trimAll(l)
	case []any:
		var out []string
		for _, item := range l {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		return stringList(strings.Fields(l))
	}
	return nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringField(raw types.RawRecord, key string) (string, bool) {
	s, ok := raw[key].(string)
	return s, ok
}
