package cloudsync

// Test Plan for cloudsync:
// - New rejects empty access key / secret key before dialing the endpoint
// - hierarchicalKey derives db/YYYY/MM/<file> from a day partition filename
// - hierarchicalKey rejects filenames that don't carry a YYYY-MM-DD suffix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "localhost:9000", "", "", "timon", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access key and secret key are required")
}

func TestHierarchicalKey(t *testing.T) {
	t.Parallel()

	key, ok := hierarchicalKey("analytics", "/data/events/events_2026-03-14.db")
	require.True(t, ok)
	assert.Equal(t, "analytics/2026/03/events_2026-03-14.db", key)
}

func TestHierarchicalKey_RejectsNonDayFile(t *testing.T) {
	t.Parallel()

	_, ok := hierarchicalKey("analytics", "/data/events/events_2026-03.db")
	assert.False(t, ok)
}
