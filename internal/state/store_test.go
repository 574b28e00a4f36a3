package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
)

func docWithClass(name string) model.AppData {
	return model.AppData{Classes: []model.SchoolClass{{ID: "c1", Name: name}}}
}

func rename(name string) func(model.AppData) (model.AppData, error) {
	return func(d model.AppData) (model.AppData, error) {
		if len(d.Classes) == 0 {
			d.Classes = []model.SchoolClass{{ID: "c1"}}
		}
		d.Classes[0].Name = name
		return d, nil
	}
}

func TestStore_SeedAndGet(t *testing.T) {
	s := NewStore(10)

	_, ok := s.Get("u1")
	assert.False(t, ok)
	assert.False(t, s.Loaded("u1"))

	s.Seed("u1", docWithClass("7A"))
	assert.True(t, s.Loaded("u1"))

	got, ok := s.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "7A", got.Classes[0].Name)

	// The returned document is a copy: mutating it never leaks back.
	got.Classes[0].Name = "changed"
	again, _ := s.Get("u1")
	assert.Equal(t, "7A", again.Classes[0].Name)
}

func TestStore_ApplyRecordsHistory(t *testing.T) {
	s := NewStore(10)
	s.Seed("u1", docWithClass("7A"))

	got, err := s.Apply("u1", rename("8B"))
	require.NoError(t, err)
	assert.Equal(t, "8B", got.Classes[0].Name)

	past, future := s.History("u1")
	assert.Equal(t, 1, past)
	assert.Equal(t, 0, future)
}

func TestStore_ApplyErrorLeavesStateUntouched(t *testing.T) {
	s := NewStore(10)
	s.Seed("u1", docWithClass("7A"))

	sentinel := errors.New("boom")
	_, err := s.Apply("u1", func(d model.AppData) (model.AppData, error) {
		d.Classes[0].Name = "broken"
		return d, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, _ := s.Get("u1")
	assert.Equal(t, "7A", got.Classes[0].Name)
	past, _ := s.History("u1")
	assert.Zero(t, past)
}

func TestStore_UndoRedo(t *testing.T) {
	s := NewStore(10)
	s.Seed("u1", docWithClass("v0"))

	_, err := s.Apply("u1", rename("v1"))
	require.NoError(t, err)
	_, err = s.Apply("u1", rename("v2"))
	require.NoError(t, err)

	got, ok := s.Undo("u1")
	require.True(t, ok)
	assert.Equal(t, "v1", got.Classes[0].Name)

	got, ok = s.Undo("u1")
	require.True(t, ok)
	assert.Equal(t, "v0", got.Classes[0].Name)

	_, ok = s.Undo("u1")
	assert.False(t, ok)

	got, ok = s.Redo("u1")
	require.True(t, ok)
	assert.Equal(t, "v1", got.Classes[0].Name)

	got, ok = s.Redo("u1")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Classes[0].Name)

	_, ok = s.Redo("u1")
	assert.False(t, ok)
}

func TestStore_ApplyClearsRedo(t *testing.T) {
	s := NewStore(10)
	s.Seed("u1", docWithClass("v0"))

	_, err := s.Apply("u1", rename("v1"))
	require.NoError(t, err)
	_, ok := s.Undo("u1")
	require.True(t, ok)

	_, err = s.Apply("u1", rename("v1b"))
	require.NoError(t, err)

	_, future := s.History("u1")
	assert.Zero(t, future)
	_, ok = s.Redo("u1")
	assert.False(t, ok)
}

func TestStore_HistoryBounded(t *testing.T) {
	s := NewStore(3)
	s.Seed("u1", docWithClass("v0"))

	for i := 1; i <= 10; i++ {
		_, err := s.Apply("u1", rename(fmt.Sprintf("v%d", i)))
		require.NoError(t, err)
	}

	past, _ := s.History("u1")
	assert.Equal(t, 3, past)

	// The oldest reachable snapshot is the limit-th one back.
	var got model.AppData
	ok := true
	for ok {
		var d model.AppData
		if d, ok = s.Undo("u1"); ok {
			got = d
		}
	}
	assert.Equal(t, "v7", got.Classes[0].Name)
}

func TestStore_OnChangeFires(t *testing.T) {
	s := NewStore(10)

	var calls []string
	s.OnChange(func(userID string, data model.AppData) {
		calls = append(calls, userID+":"+data.Classes[0].Name)
	})

	s.Seed("u1", docWithClass("v0")) // seeding never fires
	assert.Empty(t, calls)

	_, err := s.Apply("u1", rename("v1"))
	require.NoError(t, err)
	_, ok := s.Undo("u1")
	require.True(t, ok)
	_, ok = s.Redo("u1")
	require.True(t, ok)

	// Undo and redo fire too: restored versions must be persisted.
	assert.Equal(t, []string{"u1:v1", "u1:v0", "u1:v1"}, calls)
}

func TestStore_UsersIsolated(t *testing.T) {
	s := NewStore(10)
	s.Seed("u1", docWithClass("A"))
	s.Seed("u2", docWithClass("B"))

	_, err := s.Apply("u1", rename("A2"))
	require.NoError(t, err)

	got, _ := s.Get("u2")
	assert.Equal(t, "B", got.Classes[0].Name)
	past, _ := s.History("u2")
	assert.Zero(t, past)
}
