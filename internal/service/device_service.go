package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// DeviceService 设备管理服务接口
type DeviceService interface {
	// 查询
	ListDevices(ctx context.Context, req ListDevicesRequest) (*ListDevicesResponse, error)
	GetDevice(ctx context.Context, siteID, deviceID string) (*domain.Device, error)

	// 创建/更新/删除
	CreateDevice(ctx context.Context, siteID string, device *domain.Device) (string, error)
	UpdateDevice(ctx context.Context, siteID, deviceID string, device *domain.Device) error
	DeleteDevice(ctx context.Context, siteID, deviceID string) error

	// 批量导入（Excel 上传）
	ImportDevices(ctx context.Context, siteID string, devices []*domain.Device) (*ImportDevicesResult, error)

	// Component 操作
	ListComponents(ctx context.Context, siteID, deviceID string) ([]*domain.Component, error)
	CreateComponent(ctx context.Context, siteID, deviceID string, comp *domain.Component) (string, error)
	UpdateComponent(ctx context.Context, siteID, componentID string, comp *domain.Component) error
	DeleteComponent(ctx context.Context, siteID, componentID string) error
}

type deviceService struct {
	devicesRepo repository.DevicesRepository
	logger      *zap.Logger
}

// NewDeviceService 创建 DeviceService 实例
func NewDeviceService(devicesRepo repository.DevicesRepository, logger *zap.Logger) DeviceService {
	return &deviceService{devicesRepo: devicesRepo, logger: logger}
}

// ListDevicesRequest 查询设备列表请求
type ListDevicesRequest struct {
	SiteID        string   // 必填
	Status        []string // 可选：设备状态过滤（online, offline, error）
	DeviceType    string   // 可选：设备类型
	ZoneID        string   // 可选
	LocationID    string   // 可选
	SearchKeyword string   // 可选：模糊搜索 device_name, serial_number
	Page          int      // 可选，默认 1
	Size          int      // 可选，默认 20
}

// ListDevicesResponse 查询设备列表响应
type ListDevicesResponse struct {
	Items []*domain.Device
	Total int
}

func (s *deviceService) ListDevices(ctx context.Context, req ListDevicesRequest) (*ListDevicesResponse, error) {
	if req.SiteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}

	// 处理 status 参数（支持逗号分隔）
	statuses := req.Status
	if len(statuses) == 1 && strings.Contains(statuses[0], ",") {
		statuses = strings.Split(statuses[0], ",")
		for i := range statuses {
			statuses[i] = strings.TrimSpace(statuses[i])
		}
	}

	filters := repository.DeviceFilters{
		Status:        statuses,
		DeviceType:    strings.TrimSpace(req.DeviceType),
		ZoneID:        strings.TrimSpace(req.ZoneID),
		LocationID:    strings.TrimSpace(req.LocationID),
		SearchKeyword: strings.TrimSpace(req.SearchKeyword),
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 {
		size = 20
	}

	items, total, err := s.devicesRepo.ListDevices(ctx, req.SiteID, filters, page, size)
	if err != nil {
		s.logger.Error("ListDevices failed",
			zap.String("site_id", req.SiteID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list devices")
	}

	return &ListDevicesResponse{Items: items, Total: total}, nil
}

func (s *deviceService) GetDevice(ctx context.Context, siteID, deviceID string) (*domain.Device, error) {
	if siteID == "" || deviceID == "" {
		return nil, fmt.Errorf("site_id and device_id are required")
	}
	return s.devicesRepo.GetDevice(ctx, siteID, deviceID)
}

func (s *deviceService) CreateDevice(ctx context.Context, siteID string, device *domain.Device) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if device == nil || strings.TrimSpace(device.DeviceName) == "" {
		return "", fmt.Errorf("device_name is required")
	}
	if !domain.ValidDeviceType(device.DeviceType) {
		return "", fmt.Errorf("invalid device_type: %s", device.DeviceType)
	}
	device.DeviceName = strings.TrimSpace(device.DeviceName)

	id, err := s.devicesRepo.CreateDevice(ctx, siteID, device)
	if err != nil {
		s.logger.Error("CreateDevice failed",
			zap.String("site_id", siteID),
			zap.String("device_name", device.DeviceName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to create device")
	}
	return id, nil
}

func (s *deviceService) UpdateDevice(ctx context.Context, siteID, deviceID string, device *domain.Device) error {
	if siteID == "" || deviceID == "" {
		return fmt.Errorf("site_id and device_id are required")
	}
	if device == nil || strings.TrimSpace(device.DeviceName) == "" {
		return fmt.Errorf("device_name is required")
	}
	return s.devicesRepo.UpdateDevice(ctx, siteID, deviceID, device)
}

func (s *deviceService) DeleteDevice(ctx context.Context, siteID, deviceID string) error {
	if siteID == "" || deviceID == "" {
		return fmt.Errorf("site_id and device_id are required")
	}
	if err := s.devicesRepo.DeleteDevice(ctx, siteID, deviceID); err != nil {
		return err
	}
	s.logger.Info("device deleted",
		zap.String("site_id", siteID),
		zap.String("device_id", deviceID),
	)
	return nil
}

// ImportDevicesResult 批量导入结果
type ImportDevicesResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportDevices 逐条创建，单条失败不中断整批
func (s *deviceService) ImportDevices(ctx context.Context, siteID string, devices []*domain.Device) (*ImportDevicesResult, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}

	res := &ImportDevicesResult{}
	for i, d := range devices {
		if _, err := s.CreateDevice(ctx, siteID, d); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Created++
	}
	s.logger.Info("device import finished",
		zap.String("site_id", siteID),
		zap.Int("created", res.Created),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// ---- components ----

func (s *deviceService) ListComponents(ctx context.Context, siteID, deviceID string) ([]*domain.Component, error) {
	if siteID == "" || deviceID == "" {
		return nil, fmt.Errorf("site_id and device_id are required")
	}
	return s.devicesRepo.ListComponents(ctx, siteID, deviceID)
}

func (s *deviceService) CreateComponent(ctx context.Context, siteID, deviceID string, comp *domain.Component) (string, error) {
	if siteID == "" || deviceID == "" {
		return "", fmt.Errorf("site_id and device_id are required")
	}
	if comp == nil || comp.ComponentKind == "" {
		return "", fmt.Errorf("component_kind is required")
	}
	return s.devicesRepo.CreateComponent(ctx, siteID, deviceID, comp)
}

func (s *deviceService) UpdateComponent(ctx context.Context, siteID, componentID string, comp *domain.Component) error {
	if siteID == "" || componentID == "" {
		return fmt.Errorf("site_id and component_id are required")
	}
	if comp == nil || comp.ComponentKind == "" {
		return fmt.Errorf("component_kind is required")
	}
	return s.devicesRepo.UpdateComponent(ctx, siteID, componentID, comp)
}

func (s *deviceService) DeleteComponent(ctx context.Context, siteID, componentID string) error {
	if siteID == "" || componentID == "" {
		return fmt.Errorf("site_id and component_id are required")
	}
	return s.devicesRepo.DeleteComponent(ctx, siteID, componentID)
}
