package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// LocationService 位置管理服务接口
type LocationService interface {
	ListLocations(ctx context.Context, siteID, parentID string) ([]*domain.Location, error)
	// GetLocationTree 返回站点位置的嵌套树
	GetLocationTree(ctx context.Context, siteID string) ([]*repository.LocationNode, error)
	GetLocation(ctx context.Context, siteID, locationID string) (*domain.Location, error)
	CreateLocation(ctx context.Context, siteID string, loc *domain.Location) (string, error)
	UpdateLocation(ctx context.Context, siteID, locationID string, loc *domain.Location) error
	DeleteLocation(ctx context.Context, siteID, locationID string) error
}

type locationService struct {
	locationsRepo repository.LocationsRepository
	logger        *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(locationsRepo repository.LocationsRepository, logger *zap.Logger) LocationService {
	return &locationService{locationsRepo: locationsRepo, logger: logger}
}

func (s *locationService) ListLocations(ctx context.Context, siteID, parentID string) ([]*domain.Location, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	items, err := s.locationsRepo.ListLocations(ctx, siteID, parentID)
	if err != nil {
		s.logger.Error("ListLocations failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, fmt.Errorf("failed to list locations")
	}
	return items, nil
}

func (s *locationService) GetLocationTree(ctx context.Context, siteID string) ([]*repository.LocationNode, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	items, err := s.locationsRepo.ListLocations(ctx, siteID, "")
	if err != nil {
		s.logger.Error("GetLocationTree failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, fmt.Errorf("failed to load location tree")
	}
	return repository.BuildLocationTree(items), nil
}

func (s *locationService) GetLocation(ctx context.Context, siteID, locationID string) (*domain.Location, error) {
	if siteID == "" || locationID == "" {
		return nil, fmt.Errorf("site_id and location_id are required")
	}
	return s.locationsRepo.GetLocation(ctx, siteID, locationID)
}

func (s *locationService) CreateLocation(ctx context.Context, siteID string, loc *domain.Location) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if loc == nil || strings.TrimSpace(loc.LocationName) == "" {
		return "", fmt.Errorf("location_name is required")
	}
	loc.LocationName = strings.TrimSpace(loc.LocationName)

	id, err := s.locationsRepo.CreateLocation(ctx, siteID, loc)
	if err != nil {
		s.logger.Error("CreateLocation failed", zap.String("site_id", siteID), zap.Error(err))
		return "", err
	}
	return id, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, siteID, locationID string, loc *domain.Location) error {
	if siteID == "" || locationID == "" {
		return fmt.Errorf("site_id and location_id are required")
	}
	if loc == nil || strings.TrimSpace(loc.LocationName) == "" {
		return fmt.Errorf("location_name is required")
	}
	return s.locationsRepo.UpdateLocation(ctx, siteID, locationID, loc)
}

func (s *locationService) DeleteLocation(ctx context.Context, siteID, locationID string) error {
	if siteID == "" || locationID == "" {
		return fmt.Errorf("site_id and location_id are required")
	}
	return s.locationsRepo.DeleteLocation(ctx, siteID, locationID)
}
