package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SaveLoadLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	reg := &ActivityRegistry{Version: "1.0.0"}

	assert.False(t, reg.Upsert(Activity{ID: "scheduling.slot.book", TaskType: "book-guard-slot", Retries: 3}))
	assert.False(t, reg.Upsert(Activity{ID: "matching.guards.rank", TaskType: "find-best-matches"}))
	assert.True(t, reg.Upsert(Activity{ID: "scheduling.slot.book", TaskType: "book-guard-slot", Retries: 5}))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 2)
	assert.Equal(t, "matching.guards.rank", loaded.Activities[0].ID)

	a, ok := loaded.Lookup("book-guard-slot")
	require.True(t, ok)
	assert.Equal(t, 5, a.Retries)

	_, ok = loaded.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestActivity_RequiredInputs(t *testing.T) {
	a := Activity{InputSchema: map[string]interface{}{
		"required": []interface{}{"guardId", "date", 7},
	}}
	assert.Equal(t, map[string]bool{"guardId": true, "date": true}, a.RequiredInputs())
	assert.Empty(t, Activity{}.RequiredInputs())
}
