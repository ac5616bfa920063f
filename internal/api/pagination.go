package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

var errInvalidPage = &types.DetailError{Status: http.StatusNotFound, Detail: "Invalid page."}

// Paginator reads ?page and ?limit and builds page envelopes.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

type pageRequest struct {
	Page  int
	Limit int
}

func (r pageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Parse reads the page window. A malformed limit falls back to the default;
// a malformed page is an error.
func (p Paginator) Parse(c *gin.Context) (pageRequest, error) {
	req := pageRequest{Page: 1, Limit: p.DefaultLimit}

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.Limit = n
		}
	}
	if p.MaxLimit > 0 && req.Limit > p.MaxLimit {
		req.Limit = p.MaxLimit
	}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, errInvalidPage
		}
		req.Page = n
	}
	return req, nil
}

// lastPage is the index of the final page; an empty result still has page 1.
func lastPage(count int64, limit int) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

// check rejects pages past the end once the total is known.
func (r pageRequest) check(count int64) error {
	if r.Page > lastPage(count, r.Limit) {
		return errInvalidPage
	}
	return nil
}

func buildPage[T any](c *gin.Context, req pageRequest, count int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: count, Results: results}
	if req.Page < lastPage(count, req.Limit) {
		u := pageURL(c, req.Page+1)
		page.Next = &u
	}
	if req.Page > 1 {
		u := pageURL(c, req.Page-1)
		page.Previous = &u
	}
	return page
}

// pageURL is the current request URL pointing at page n. Page 1 drops the
// parameter.
func pageURL(c *gin.Context, n int) string {
	q := c.Request.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u := baseURL(c) + c.Request.URL.Path
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// baseURL is scheme://host of the incoming request.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.TrimSpace(scheme)
	}
	return scheme + "://" + c.Request.Host
}

// absoluteURL prefixes host-relative URLs with the request origin.
func absoluteURL(c *gin.Context, u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return baseURL(c) + u
	}
	return u
}
