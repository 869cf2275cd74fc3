package webui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidarchive/agentkit"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore()

	rec := store.Create(agentkit.AgentExplore, "find it", "look for the parser", "", 0)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, StatusCreated, rec.Status)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, agentkit.AgentExplore, got.AgentType)
}

func TestStoreParentChildLink(t *testing.T) {
	store := NewStore()

	parent := store.Create(agentkit.AgentCode, "build", "build the feature", "", 0)
	child := store.Create(agentkit.AgentExplore, "scout", "find the files", parent.ID, 1)

	got, err := store.Get(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, got.Children)
	assert.Equal(t, parent.ID, child.ParentID)
	assert.Equal(t, 1, child.Depth)
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore()
	rec := store.Create(agentkit.AgentPlan, "", "plan it", "", 0)

	updated, err := store.Update(rec.ID, func(r *AgentRecord) {
		r.Status = StatusCompleted
		r.Output = "the plan"
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, "the plan", updated.Output)
	assert.False(t, updated.UpdatedAt.Before(rec.UpdatedAt))

	_, err = store.Update("missing", func(r *AgentRecord) {})
	assert.Error(t, err)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewStore()
	store.Create(agentkit.AgentExplore, "a", "first", "", 0)
	store.Create(agentkit.AgentExplore, "b", "second", "", 0)

	list := store.List()
	require.Len(t, list, 2)
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))
}

func TestStoreDeleteUnlinksFromParent(t *testing.T) {
	store := NewStore()
	parent := store.Create(agentkit.AgentCode, "build", "build it", "", 0)
	first := store.Create(agentkit.AgentExplore, "scout", "find files", parent.ID, 1)
	second := store.Create(agentkit.AgentPlan, "plan", "plan it", parent.ID, 1)

	store.Delete(first.ID)

	got, err := store.Get(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, got.Children)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	rec := store.Create(agentkit.AgentExplore, "", "p", "", 0)

	store.Delete(rec.ID)
	_, err := store.Get(rec.ID)
	assert.Error(t, err)

	store.Delete("missing") // no-op
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()
	rec := store.Create(agentkit.AgentExplore, "", "p", "", 0)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	got.Status = StatusError

	again, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, again.Status)
}
