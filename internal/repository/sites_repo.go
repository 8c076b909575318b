package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// SitesRepository 站点Repository接口
// 使用强类型领域模型，不使用map[string]any
type SitesRepository interface {
	ListSites(ctx context.Context, filters SiteFilters, page, size int) ([]*domain.Site, int, error)
	GetSite(ctx context.Context, siteID string) (*domain.Site, error)
	CreateSite(ctx context.Context, site *domain.Site) (string, error)
	UpdateSite(ctx context.Context, siteID string, site *domain.Site) error
	DeleteSite(ctx context.Context, siteID string) error
}

// SiteFilters 站点查询过滤器
type SiteFilters struct {
	Status string // 可选：active / inactive
	Search string // 可选：模糊搜索 site_name, city
}
