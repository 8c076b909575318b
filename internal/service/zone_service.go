package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// ZoneService 区域管理服务接口
type ZoneService interface {
	ListZones(ctx context.Context, siteID, locationID string) ([]*domain.Zone, error)
	GetZone(ctx context.Context, siteID, zoneID string) (*domain.Zone, error)
	CreateZone(ctx context.Context, siteID string, zone *domain.Zone) (string, error)
	UpdateZone(ctx context.Context, siteID, zoneID string, zone *domain.Zone) error
	DeleteZone(ctx context.Context, siteID, zoneID string) error
}

type zoneService struct {
	zonesRepo repository.ZonesRepository
	logger    *zap.Logger
}

// NewZoneService 创建 ZoneService 实例
func NewZoneService(zonesRepo repository.ZonesRepository, logger *zap.Logger) ZoneService {
	return &zoneService{zonesRepo: zonesRepo, logger: logger}
}

func (s *zoneService) ListZones(ctx context.Context, siteID, locationID string) ([]*domain.Zone, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	items, err := s.zonesRepo.ListZones(ctx, siteID, locationID)
	if err != nil {
		s.logger.Error("ListZones failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, fmt.Errorf("failed to list zones")
	}
	return items, nil
}

func (s *zoneService) GetZone(ctx context.Context, siteID, zoneID string) (*domain.Zone, error) {
	if siteID == "" || zoneID == "" {
		return nil, fmt.Errorf("site_id and zone_id are required")
	}
	return s.zonesRepo.GetZone(ctx, siteID, zoneID)
}

func (s *zoneService) CreateZone(ctx context.Context, siteID string, zone *domain.Zone) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if zone == nil || strings.TrimSpace(zone.ZoneName) == "" {
		return "", fmt.Errorf("zone_name is required")
	}
	if zone.LocationID == "" {
		return "", fmt.Errorf("location_id is required")
	}
	if err := validatePolygon(zone); err != nil {
		return "", err
	}
	zone.ZoneName = strings.TrimSpace(zone.ZoneName)

	id, err := s.zonesRepo.CreateZone(ctx, siteID, zone)
	if err != nil {
		s.logger.Error("CreateZone failed", zap.String("site_id", siteID), zap.Error(err))
		return "", err
	}
	return id, nil
}

func (s *zoneService) UpdateZone(ctx context.Context, siteID, zoneID string, zone *domain.Zone) error {
	if siteID == "" || zoneID == "" {
		return fmt.Errorf("site_id and zone_id are required")
	}
	if zone == nil || strings.TrimSpace(zone.ZoneName) == "" {
		return fmt.Errorf("zone_name is required")
	}
	if err := validatePolygon(zone); err != nil {
		return err
	}
	return s.zonesRepo.UpdateZone(ctx, siteID, zoneID, zone)
}

func (s *zoneService) DeleteZone(ctx context.Context, siteID, zoneID string) error {
	if siteID == "" || zoneID == "" {
		return fmt.Errorf("site_id and zone_id are required")
	}
	return s.zonesRepo.DeleteZone(ctx, siteID, zoneID)
}

// validatePolygon polygon 可选，给了就必须是至少 3 个点的合法 JSON
func validatePolygon(zone *domain.Zone) error {
	if !zone.Polygon.Valid || zone.Polygon.String == "" {
		return nil
	}
	var pts []domain.PolygonPoint
	if err := json.Unmarshal([]byte(zone.Polygon.String), &pts); err != nil {
		return fmt.Errorf("polygon must be a JSON array of {x,y} points")
	}
	if len(pts) < 3 {
		return fmt.Errorf("polygon needs at least 3 points")
	}
	return nil
}
