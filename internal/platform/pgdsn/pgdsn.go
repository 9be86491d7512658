// Package pgdsn handles the DB_URL forms shared by the API and the
// migration command.
package pgdsn

import (
	"net/url"
	"strings"

	"github.com/lib/pq"
)

// Prepare readies DB_URL for lib/pq. URL and key=value forms are both
// accepted.
func Prepare(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	if !disablePreparedBinary {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		if !query.Has("disable_prepared_binary_result") {
			query.Set("disable_prepared_binary_result", "yes")
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	if strings.Contains(raw, "disable_prepared_binary_result=") {
		return raw
	}
	return strings.TrimSpace(raw + " disable_prepared_binary_result=yes")
}

// DatabaseName reads dbname for span attributes; "" when absent.
func DatabaseName(dsn string) string {
	if kv, err := pq.ParseURL(dsn); err == nil {
		dsn = kv
	}
	for _, pair := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(pair, "=")
		if ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}
