package service

import (
	"context"
	"testing"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGroupService(t *testing.T) (GroupService, string, string) {
	t.Helper()
	ctx := context.Background()
	peopleRepo := repository.NewMemoryPeopleRepo()
	devicesRepo := repository.NewMemoryDevicesRepo()
	svc := NewGroupService(repository.NewMemoryGroupsRepo(), peopleRepo, devicesRepo, zap.NewNop())

	personID, err := peopleRepo.CreatePerson(ctx, "site-1", &domain.Person{
		PersonName: "Dana Wu",
		Role:       domain.PersonRoleStaff,
	})
	require.NoError(t, err)
	deviceID, err := devicesRepo.CreateDevice(ctx, "site-1", &domain.Device{
		DeviceName: "West Wing Light",
		DeviceType: domain.DeviceTypeLuminaire,
	})
	require.NoError(t, err)
	return svc, personID, deviceID
}

func TestGroupService_CreateWithMembers(t *testing.T) {
	svc, personID, deviceID := newTestGroupService(t)
	ctx := context.Background()

	id, err := svc.CreateGroup(ctx, "site-1", &domain.Group{
		GroupName: "West Wing",
		PersonIDs: []string{personID},
		DeviceIDs: []string{deviceID},
	})
	require.NoError(t, err)

	g, err := svc.GetGroup(ctx, "site-1", id)
	require.NoError(t, err)
	assert.Equal(t, []string{personID}, g.PersonIDs)
	assert.Equal(t, []string{deviceID}, g.DeviceIDs)
}

func TestGroupService_RejectsForeignMembers(t *testing.T) {
	svc, personID, _ := newTestGroupService(t)
	ctx := context.Background()

	// 不属于该站点的成员引用被拒绝
	_, err := svc.CreateGroup(ctx, "site-1", &domain.Group{
		GroupName: "Bad Group",
		PersonIDs: []string{"not-a-person"},
	})
	assert.ErrorContains(t, err, "person not in site")

	_, err = svc.CreateGroup(ctx, "site-1", &domain.Group{
		GroupName: "Bad Group",
		DeviceIDs: []string{"not-a-device"},
	})
	assert.ErrorContains(t, err, "device not in site")

	// 跨站点引用同样拒绝
	_, err = svc.CreateGroup(ctx, "site-2", &domain.Group{
		GroupName: "Cross Site",
		PersonIDs: []string{personID},
	})
	assert.Error(t, err)
}

func TestGroupService_UpdateReplacesMembers(t *testing.T) {
	svc, personID, deviceID := newTestGroupService(t)
	ctx := context.Background()

	id, err := svc.CreateGroup(ctx, "site-1", &domain.Group{
		GroupName: "Night Shift",
		PersonIDs: []string{personID},
	})
	require.NoError(t, err)

	// 更新整体替换成员
	err = svc.UpdateGroup(ctx, "site-1", id, &domain.Group{
		GroupName: "Night Shift",
		DeviceIDs: []string{deviceID},
	})
	require.NoError(t, err)

	g, err := svc.GetGroup(ctx, "site-1", id)
	require.NoError(t, err)
	assert.Empty(t, g.PersonIDs)
	assert.Equal(t, []string{deviceID}, g.DeviceIDs)
}

func TestGroupService_Validation(t *testing.T) {
	svc, _, _ := newTestGroupService(t)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, "site-1", &domain.Group{GroupName: "  "})
	assert.Error(t, err)

	err = svc.DeleteGroup(ctx, "site-1", "missing")
	assert.Error(t, err)
}
