package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jimyag/jfm/internal/jfm/repository/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSnapshotRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	snapshotRepo := NewNodeSnapshotRepository(repo.DB())
	ctx := context.Background()

	newSnapshot := func(systemID string, nodeType int) *model.NodeSnapshot {
		return &model.NodeSnapshot{
			SystemID:  systemID,
			Hostname:  "host-" + systemID,
			NodeType:  nodeType,
			Data:      `{"system_id":"` + systemID + `"}`,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	t.Run("Save and GetBySystemID", func(t *testing.T) {
		require.NoError(t, snapshotRepo.Save(ctx, newSnapshot("save-1", 0)))

		got, err := snapshotRepo.GetBySystemID(ctx, "save-1")
		require.NoError(t, err)
		assert.Equal(t, "host-save-1", got.Hostname)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, snapshotRepo.Save(ctx, newSnapshot("save-2", 0)))

		updated := newSnapshot("save-2", 0)
		updated.Hostname = "renamed"
		updated.Data = `{"system_id":"save-2","hostname":"renamed"}`
		require.NoError(t, snapshotRepo.Save(ctx, updated))

		got, err := snapshotRepo.GetBySystemID(ctx, "save-2")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Hostname)
		assert.Contains(t, got.Data, "renamed")
	})

	t.Run("Save restores soft deleted", func(t *testing.T) {
		require.NoError(t, snapshotRepo.Save(ctx, newSnapshot("save-3", 0)))
		require.NoError(t, snapshotRepo.Delete(ctx, "save-3"))

		_, err := snapshotRepo.GetBySystemID(ctx, "save-3")
		assert.Error(t, err)

		require.NoError(t, snapshotRepo.Save(ctx, newSnapshot("save-3", 0)))
		_, err = snapshotRepo.GetBySystemID(ctx, "save-3")
		assert.NoError(t, err)
	})
}

func TestNodeSnapshotRepository_ListAndDeleteExcept(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	snapshotRepo := NewNodeSnapshotRepository(repo.DB())
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"m1", "c1", "m2"} {
		nodeType := 0
		if id == "c1" {
			nodeType = 2
		}
		require.NoError(t, snapshotRepo.Save(ctx, &model.NodeSnapshot{
			SystemID:  id,
			Hostname:  id,
			NodeType:  nodeType,
			Data:      "{}",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base,
		}))
	}

	all, err := snapshotRepo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m1", all[0].SystemID)
	assert.Equal(t, "m2", all[2].SystemID)

	machines, err := snapshotRepo.List(ctx, map[string]interface{}{"node_type": 0})
	require.NoError(t, err)
	assert.Len(t, machines, 2)

	removed, err := snapshotRepo.DeleteExcept(ctx, []string{"m1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	all, err = snapshotRepo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "m1", all[0].SystemID)

	removed, err = snapshotRepo.DeleteExcept(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
