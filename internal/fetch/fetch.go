// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the paper search service and normalizes its results.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/papersynth/internal/normalize"
	"github.com/pdiddy/papersynth/pkg/types"
)

// Searcher is a paper search backend returning raw records.
type Searcher interface {
	Name() string
	Search(ctx context.Context, req types.SearchRequest) ([]types.RawRecord, error)
}

// Fetch runs req against s and normalizes every returned record.
// Any search error fails the fetch.
func Fetch(ctx context.Context, s Searcher, req types.SearchRequest, now time.Time) (types.FetchResult, error) {
	if strings.TrimSpace(req.Query) == "" && len(req.Categories) == 0 {
		return types.FetchResult{}, fmt.Errorf("empty search: no query and no categories")
	}

	raws, err := s.Search(ctx, req)
	if err != nil {
		return types.FetchResult{}, fmt.Errorf("%s search: %w", s.Name(), err)
	}

	papers := normalize.NormalizeAll(raws, now)
	return types.FetchResult{
		Status:             types.StatusSuccess,
		PapersCount:        len(papers),
		Papers:             papers,
		QueryUsed:          req.Query,
		CategoriesSearched: req.Categories,
	}, nil
}
