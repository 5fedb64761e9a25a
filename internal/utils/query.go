package utils

import (
	"net/url"
	"strconv"
	"strings"
)

const maxPage = 200

// QueryInt parses an integer query parameter, falling back to def when it is
// missing or malformed.
func QueryInt(q url.Values, key string, def int) int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// QueryBool returns nil when the parameter is absent or not a boolean.
func QueryBool(q url.Values, key string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &v
}

// Page reads limit/offset and clamps them to [1,200] and >= 0.
func Page(q url.Values, defLimit int) (limit, offset int) {
	limit = QueryInt(q, "limit", defLimit)
	if limit <= 0 {
		limit = defLimit
	}
	if limit > maxPage {
		limit = maxPage
	}
	offset = QueryInt(q, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
