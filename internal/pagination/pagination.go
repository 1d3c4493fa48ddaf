package pagination

import (
	"net/http"
	"strconv"
)

// Default pagination values
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params represents pagination query parameters
type Params struct {
	Page  int `json:"page"`  // 1-based
	Limit int `json:"limit"` // items per page
}

// Meta contains pagination metadata for list responses
type Meta struct {
	CurrentPage  int  `json:"currentPage"`
	PerPage      int  `json:"perPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
}

// ParseParams reads page and limit from the query string. Missing or
// malformed values fall back to the defaults; limit is capped at MaxLimit.
func ParseParams(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{
		Page:  queryInt(q.Get("page"), DefaultPage),
		Limit: queryInt(q.Get("limit"), DefaultLimit),
	}
	p.Validate()
	return p
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Validate ensures pagination parameters are valid and sets defaults if needed
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// CalculateOffset returns the index of the first item on the page
func (p *Params) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateMeta creates pagination metadata based on total records
func (p *Params) CalculateMeta(totalRecords int) Meta {
	totalPages := (totalRecords + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		CurrentPage:  p.Page,
		PerPage:      p.Limit,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      p.Page < totalPages,
		HasPrevious:  p.Page > 1,
	}
}

// Slice returns the page of items selected by p together with its metadata.
// The store returns whole collections, so paging happens here.
func Slice[T any](items []T, p Params) ([]T, Meta) {
	p.Validate()
	meta := p.CalculateMeta(len(items))

	// Pages past the end are empty; checking before the multiply keeps the
	// offset from overflowing on huge page values.
	if p.Page > meta.TotalPages {
		return []T{}, meta
	}
	start := p.CalculateOffset()
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
