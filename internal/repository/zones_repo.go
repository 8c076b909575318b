package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// ZonesRepository 区域Repository接口
type ZonesRepository interface {
	// ListZones locationID 为空时返回站点下全部 zone
	ListZones(ctx context.Context, siteID string, locationID string) ([]*domain.Zone, error)
	GetZone(ctx context.Context, siteID, zoneID string) (*domain.Zone, error)
	CreateZone(ctx context.Context, siteID string, zone *domain.Zone) (string, error)
	UpdateZone(ctx context.Context, siteID, zoneID string, zone *domain.Zone) error
	DeleteZone(ctx context.Context, siteID, zoneID string) error
}
