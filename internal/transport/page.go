package transport

import "inscode/internal/repository"

// Pagination describes the position of a page inside the full result
// set. Field names are part of the public API contract.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Page is the envelope every list endpoint responds with.
type Page struct {
	Pagination Pagination `json:"pagination"`
	Results    []any      `json:"results"`
}

// NewPage converts a repository page into the response envelope,
// running each item through serialize. Results is always a non-nil
// slice so empty pages marshal as [].
func NewPage[T any](res *repository.PageResult[T], serialize func(*T) any) Page {
	results := make([]any, 0, len(res.Items))
	for i := range res.Items {
		results = append(results, serialize(&res.Items[i]))
	}
	return Page{
		Pagination: Pagination{
			CurrentPage: res.Page,
			TotalItems:  res.Total,
			HasNext:     res.HasNext(),
			HasPrevious: res.HasPrevious(),
		},
		Results: results,
	}
}
