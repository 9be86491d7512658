package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceQuery(t *testing.T) {
	t.Parallel()

	got := traceQuery("\n\tSELECT *\n\t  FROM standings\n\tWHERE deleted_at IS NULL ")
	assert.Equal(t, "SELECT * FROM standings WHERE deleted_at IS NULL", got)

	long := traceQuery("SELECT " + strings.Repeat("é", traceQueryLimit))
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.LessOrEqual(t, len(long), traceQueryLimit+3)
}
