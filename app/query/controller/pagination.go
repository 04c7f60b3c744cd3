package controller

import (
	"net/http"

	"github.com/kraxel/txquery/pkg/query"
)

// pageRequest copies limit and offset from the query string. Parsing and
// bounds are enforced by the query service.
func pageRequest(r *http.Request) query.PageRequest {
	qs := r.URL.Query()
	return query.PageRequest{Limit: qs.Get("limit"), Offset: qs.Get("offset")}
}

func pageMeta[T any](p *query.Page[T]) map[string]any {
	return map[string]any{"total": p.Total, "limit": p.Limit, "offset": p.Offset}
}
