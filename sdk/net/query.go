package net

import (
	"net/url"
	"strconv"
	"strings"
)

// ListOptions paginates list and search calls. Zero values are omitted so
// the server defaults apply.
type ListOptions struct {
	Limit  int
	Offset int
	Stages []string
}

// Values renders the options as a query string.
func (o ListOptions) Values() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(o.Stages) > 0 {
		q.Set("stages", strings.Join(o.Stages, ","))
	}
	return q
}

// JoinPath builds an API path from escaped segments.
func JoinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
