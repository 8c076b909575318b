package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// DevicesRepository 设备Repository接口
// 使用强类型领域模型，不使用map[string]any
type DevicesRepository interface {
	// 查询
	ListDevices(ctx context.Context, siteID string, filters DeviceFilters, page, size int) ([]*domain.Device, int, error)
	GetDevice(ctx context.Context, siteID, deviceID string) (*domain.Device, error)

	// 创建/更新/删除
	CreateDevice(ctx context.Context, siteID string, device *domain.Device) (string, error)
	UpdateDevice(ctx context.Context, siteID, deviceID string, device *domain.Device) error
	DeleteDevice(ctx context.Context, siteID, deviceID string) error

	// UpdateDeviceStatus 遥测接入用：只更新 status，不动其它字段
	UpdateDeviceStatus(ctx context.Context, siteID, deviceID, status string) error

	// Component 操作（device 聚合的子实体）
	ListComponents(ctx context.Context, siteID, deviceID string) ([]*domain.Component, error)
	GetComponent(ctx context.Context, siteID, componentID string) (*domain.Component, error)
	CreateComponent(ctx context.Context, siteID, deviceID string, comp *domain.Component) (string, error)
	UpdateComponent(ctx context.Context, siteID, componentID string, comp *domain.Component) error
	DeleteComponent(ctx context.Context, siteID, componentID string) error
}

// DeviceFilters 设备查询过滤器
type DeviceFilters struct {
	Status        []string // 设备状态过滤（online, offline, error）
	DeviceType    string   // 设备类型
	ZoneID        string   // 按 zone 过滤
	LocationID    string   // 按位置过滤
	SearchKeyword string   // 模糊搜索 device_name, serial_number
}
