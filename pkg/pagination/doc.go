// Package pagination aggregates CloudHealth listings that are split into
// numbered pages.
//
// The API has no "has more" flag or total-pages header. A page shorter than
// the requested page size marks the end of the data, so pages are fetched
// strictly in order, one at a time:
//
//	p, err := pagination.NewPaginator(apiClient, pagination.Config{PageSize: 100})
//	customers, err := p.FetchAll(ctx, "v1/customers", nil, "customers")
//
// When the total is an exact multiple of the page size, one extra request is
// made and the empty page it returns ends the loop.
//
// Any request failure aborts the aggregation; no partial result is returned
// and the failed page is not retried.
package pagination
