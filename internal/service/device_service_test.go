package service

import (
	"context"
	"database/sql"
	"testing"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDeviceService() DeviceService {
	return NewDeviceService(repository.NewMemoryDevicesRepo(), zap.NewNop())
}

func TestDeviceService_CreateAndGet(t *testing.T) {
	svc := newTestDeviceService()
	ctx := context.Background()

	id, err := svc.CreateDevice(ctx, "site-1", &domain.Device{
		DeviceName: "  Lobby Downlight 1  ",
		DeviceType: domain.DeviceTypeLuminaire,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	d, err := svc.GetDevice(ctx, "site-1", id)
	require.NoError(t, err)
	assert.Equal(t, "Lobby Downlight 1", d.DeviceName) // 名称去除首尾空格
	assert.Equal(t, domain.DeviceStatusOffline, d.Status)

	// 其他站点看不到
	_, err = svc.GetDevice(ctx, "site-2", id)
	assert.Error(t, err)
}

func TestDeviceService_CreateValidation(t *testing.T) {
	svc := newTestDeviceService()
	ctx := context.Background()

	_, err := svc.CreateDevice(ctx, "", &domain.Device{DeviceName: "x", DeviceType: domain.DeviceTypeGateway})
	assert.Error(t, err)

	_, err = svc.CreateDevice(ctx, "site-1", &domain.Device{DeviceName: "   ", DeviceType: domain.DeviceTypeGateway})
	assert.Error(t, err)

	_, err = svc.CreateDevice(ctx, "site-1", &domain.Device{DeviceName: "x", DeviceType: "toaster"})
	assert.Error(t, err)
}

func TestDeviceService_ListFilters(t *testing.T) {
	svc := newTestDeviceService()
	ctx := context.Background()

	mk := func(name, dtype, status string) {
		id, err := svc.CreateDevice(ctx, "site-1", &domain.Device{DeviceName: name, DeviceType: dtype})
		require.NoError(t, err)
		if status != domain.DeviceStatusOffline {
			d, err := svc.GetDevice(ctx, "site-1", id)
			require.NoError(t, err)
			d.Status = status
			require.NoError(t, svc.UpdateDevice(ctx, "site-1", id, d))
		}
	}
	mk("North Hall Light", domain.DeviceTypeLuminaire, domain.DeviceStatusOnline)
	mk("South Hall Light", domain.DeviceTypeLuminaire, domain.DeviceStatusOffline)
	mk("Hall Motion", domain.DeviceTypeMotionSensor, domain.DeviceStatusError)

	// 类型过滤
	resp, err := svc.ListDevices(ctx, ListDevicesRequest{SiteID: "site-1", DeviceType: domain.DeviceTypeLuminaire})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// status 支持逗号分隔
	resp, err = svc.ListDevices(ctx, ListDevicesRequest{SiteID: "site-1", Status: []string{"online, error"}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// 关键字搜索
	resp, err = svc.ListDevices(ctx, ListDevicesRequest{SiteID: "site-1", SearchKeyword: "north"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// 分页
	resp, err = svc.ListDevices(ctx, ListDevicesRequest{SiteID: "site-1", Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Items, 2)
}

func TestDeviceService_ImportDevices(t *testing.T) {
	svc := newTestDeviceService()
	ctx := context.Background()

	res, err := svc.ImportDevices(ctx, "site-1", []*domain.Device{
		{DeviceName: "Import A", DeviceType: domain.DeviceTypeLuminaire},
		{DeviceName: "", DeviceType: domain.DeviceTypeLuminaire}, // 名称缺失
		{DeviceName: "Import B", DeviceType: "bogus"},            // 类型非法
		{DeviceName: "Import C", DeviceType: domain.DeviceTypeController},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "row 2")
	assert.Contains(t, res.Errors[1], "row 3")
}

func TestDeviceService_Components(t *testing.T) {
	svc := newTestDeviceService()
	ctx := context.Background()

	deviceID, err := svc.CreateDevice(ctx, "site-1", &domain.Device{
		DeviceName: "Corridor Panel",
		DeviceType: domain.DeviceTypeLuminaire,
	})
	require.NoError(t, err)

	compID, err := svc.CreateComponent(ctx, "site-1", deviceID, &domain.Component{
		ComponentKind: domain.ComponentKindDriver,
		Model:         sql.NullString{String: "LED-DRV-40W", Valid: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, compID)

	comps, err := svc.ListComponents(ctx, "site-1", deviceID)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, domain.ComponentKindDriver, comps[0].ComponentKind)

	// 设备不存在时组件创建失败
	_, err = svc.CreateComponent(ctx, "site-1", "missing-device", &domain.Component{
		ComponentKind: domain.ComponentKindRelay,
	})
	assert.Error(t, err)

	// 删除设备级联删除组件
	require.NoError(t, svc.DeleteDevice(ctx, "site-1", deviceID))
	err = svc.DeleteComponent(ctx, "site-1", compID)
	assert.Error(t, err)
}
