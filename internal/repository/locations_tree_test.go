package repository

import (
	"context"
	"database/sql"
	"testing"

	"luxgrid-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLocationTree(t *testing.T) {
	loc := func(id, parentID string) *domain.Location {
		l := &domain.Location{LocationID: id, LocationName: id, LocationType: domain.LocationTypeRoom}
		if parentID != "" {
			l.ParentID = sql.NullString{String: parentID, Valid: true}
		}
		return l
	}

	t.Run("nested", func(t *testing.T) {
		roots := BuildLocationTree([]*domain.Location{
			loc("floor-1", ""),
			loc("room-1", "floor-1"),
			loc("room-2", "floor-1"),
			loc("area-1", "room-1"),
		})
		require.Len(t, roots, 1)
		require.Len(t, roots[0].Children, 2)

		var room1 *LocationNode
		for _, c := range roots[0].Children {
			if c.Location.LocationID == "room-1" {
				room1 = c
			}
		}
		require.NotNil(t, room1)
		assert.Len(t, room1.Children, 1)
	})

	t.Run("orphan parent becomes root", func(t *testing.T) {
		roots := BuildLocationTree([]*domain.Location{
			loc("room-1", "missing-floor"),
			loc("floor-1", ""),
		})
		assert.Len(t, roots, 2)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, BuildLocationTree(nil))
	})
}

func TestMemoryLocationsRepo_SubtreeDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLocationsRepo()

	floorID, err := repo.CreateLocation(ctx, "site-1", &domain.Location{
		LocationName: "Floor 1", LocationType: domain.LocationTypeFloor,
	})
	require.NoError(t, err)
	roomID, err := repo.CreateLocation(ctx, "site-1", &domain.Location{
		LocationName: "Room 1", LocationType: domain.LocationTypeRoom,
		ParentID: sql.NullString{String: floorID, Valid: true},
	})
	require.NoError(t, err)
	_, err = repo.CreateLocation(ctx, "site-1", &domain.Location{
		LocationName: "Area 1", LocationType: domain.LocationTypeArea,
		ParentID: sql.NullString{String: roomID, Valid: true},
	})
	require.NoError(t, err)

	// 删根带走整棵子树
	require.NoError(t, repo.DeleteLocation(ctx, "site-1", floorID))
	all, err := repo.ListLocations(ctx, "site-1", "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
