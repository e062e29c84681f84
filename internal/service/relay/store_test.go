package relay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/opsdesk/opsdesk/internal/model/relay"
	"github.com/opsdesk/opsdesk/internal/service/relay"
)

func TestStoreCreateOrGetIdempotent(t *testing.T) {
	store := relay.NewSessionStore()

	store.CreateOrGet("s1")
	_, ok := store.Append("s1", model.RoleUser, "hello")
	require.True(t, ok)

	// A second CreateOrGet must not wipe the transcript.
	store.CreateOrGet("s1")
	assert.Len(t, store.History("s1"), 1)
}

func TestStoreAppendUnknownSessionNoOp(t *testing.T) {
	store := relay.NewSessionStore()

	_, ok := store.Append("missing", model.RoleUser, "hello")
	assert.False(t, ok)
	assert.False(t, store.Has("missing"))
}

func TestStoreHistoryPreservesOrder(t *testing.T) {
	store := relay.NewSessionStore()
	store.CreateOrGet("s1")

	texts := []string{"q1", "a1", "q2", "a2"}
	roles := []string{model.RoleUser, model.RoleAssistant, model.RoleUser, model.RoleAssistant}
	for i := range texts {
		_, ok := store.Append("s1", roles[i], texts[i])
		require.True(t, ok)
	}

	history := store.History("s1")
	require.Len(t, history, 4)
	for i, msg := range history {
		assert.Equal(t, roles[i], msg.Role)
		assert.Equal(t, texts[i], msg.Text)
	}
}

func TestStoreHistoryUnknownSessionEmpty(t *testing.T) {
	store := relay.NewSessionStore()

	history := store.History("missing")
	require.NotNil(t, history)
	assert.Empty(t, history)
}

func TestStoreHistoryIsACopy(t *testing.T) {
	store := relay.NewSessionStore()
	store.CreateOrGet("s1")
	store.Append("s1", model.RoleUser, "original")

	history := store.History("s1")
	history[0].Text = "mutated"

	assert.Equal(t, "original", store.History("s1")[0].Text)
}
