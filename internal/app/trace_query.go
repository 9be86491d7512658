package app

import (
	"strings"
	"unicode/utf8"
)

const traceQueryLimit = 512

// traceQuery collapses whitespace so multi-line statements read on one
// span line, capped at traceQueryLimit bytes.
func traceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= traceQueryLimit {
		return query
	}
	cut := traceQueryLimit
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
