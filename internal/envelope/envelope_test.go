package envelope

// Test Plan for envelope:
// - OK with a payload marshals it and reports IsOK
// - OK with a nil payload omits the Payload field
// - Err wraps a Go error into a 400 envelope
// - Unmarshal decodes a successful envelope's payload
// - Unmarshal fails when the envelope carries no payload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK_WithPayload(t *testing.T) {
	t.Parallel()

	env := OK("ok", []int{1, 2, 3})
	assert.True(t, env.IsOK())
	assert.EqualValues(t, 200, env.Status)

	var got []int
	require.NoError(t, env.Unmarshal(&got))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestOK_NilPayload(t *testing.T) {
	t.Parallel()

	env := OK("done", nil)
	assert.True(t, env.IsOK())
	assert.Empty(t, env.Payload)
}

func TestErr(t *testing.T) {
	t.Parallel()

	env := Err(errors.New("boom"))
	assert.False(t, env.IsOK())
	assert.EqualValues(t, 400, env.Status)
	assert.Equal(t, "boom", env.Message)
}

func TestUnmarshal_NoPayloadFails(t *testing.T) {
	t.Parallel()

	env := Err(errors.New("boom"))
	var dst map[string]any
	assert.Error(t, env.Unmarshal(&dst))
}
