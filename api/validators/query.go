package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryString returns the trimmed value of a query parameter.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryBool reads flags such as ?ai=true. Anything that does not parse as a bool is false.
func QueryBool(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(QueryString(r, key))
	return err == nil && value
}
