//go:build integration

package repository

import (
	"context"
	"testing"

	"luxgrid-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresGroupsRepo_MembersRoundTrip(t *testing.T) {
	db := openTestDB(t)
	siteID := createTestSite(t, db)
	ctx := context.Background()

	peopleRepo := NewPostgresPeopleRepo(db)
	devicesRepo := NewPostgresDevicesRepo(db)
	groupsRepo := NewPostgresGroupsRepo(db)

	personID, err := peopleRepo.CreatePerson(ctx, siteID, &domain.Person{
		PersonName: "IT Person", Role: domain.PersonRoleStaff,
	})
	require.NoError(t, err)
	deviceID, err := devicesRepo.CreateDevice(ctx, siteID, &domain.Device{
		DeviceName: "IT Device", DeviceType: domain.DeviceTypeLuminaire,
	})
	require.NoError(t, err)

	groupID, err := groupsRepo.CreateGroup(ctx, siteID, &domain.Group{
		GroupName: "IT Group",
		PersonIDs: []string{personID},
		DeviceIDs: []string{deviceID},
	})
	require.NoError(t, err)

	g, err := groupsRepo.GetGroup(ctx, siteID, groupID)
	require.NoError(t, err)
	assert.Equal(t, []string{personID}, g.PersonIDs)
	assert.Equal(t, []string{deviceID}, g.DeviceIDs)

	// 更新整体替换成员
	require.NoError(t, groupsRepo.UpdateGroup(ctx, siteID, groupID, &domain.Group{
		GroupName: "IT Group v2",
		DeviceIDs: []string{deviceID},
	}))
	g, err = groupsRepo.GetGroup(ctx, siteID, groupID)
	require.NoError(t, err)
	assert.Equal(t, "IT Group v2", g.GroupName)
	assert.Empty(t, g.PersonIDs)

	// 删除成员实体后关联由级联清理
	require.NoError(t, devicesRepo.DeleteDevice(ctx, siteID, deviceID))
	g, err = groupsRepo.GetGroup(ctx, siteID, groupID)
	require.NoError(t, err)
	assert.Empty(t, g.DeviceIDs)

	require.NoError(t, groupsRepo.DeleteGroup(ctx, siteID, groupID))
	_, err = groupsRepo.GetGroup(ctx, siteID, groupID)
	assert.Error(t, err)
}
