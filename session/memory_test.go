package session

import (
	"context"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidarchive/agentkit"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := agentkit.NewSession()
	sess.AgentType = agentkit.AgentCode
	sess.Messages = append(sess.Messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock("hello")))

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, agentkit.AgentCode, got.AgentType)
	assert.Len(t, got.Messages, 1)
}

func TestMemoryStoreLoadIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := agentkit.NewSession()
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)

	// Mutating a loaded copy must not affect the stored session.
	got.Messages = append(got.Messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock("mutated")))

	again, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Messages)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "sess_nope")
	assert.Error(t, err)
}

func TestMemoryStoreSaveValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	assert.Error(t, store.Save(ctx, nil))
	assert.Error(t, store.Save(ctx, &agentkit.Session{}))
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := agentkit.NewSession()
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err := store.Load(ctx, sess.ID)
	assert.Error(t, err)

	// Deleting again is fine.
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := agentkit.NewSession()
	b := agentkit.NewSession()
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	assert.ElementsMatch(t, []string{a.ID, b.ID}, store.List())
}
