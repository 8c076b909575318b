package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// SiteService 站点管理服务接口
type SiteService interface {
	ListSites(ctx context.Context, req ListSitesRequest) (*ListSitesResponse, error)
	GetSite(ctx context.Context, siteID string) (*domain.Site, error)
	CreateSite(ctx context.Context, site *domain.Site) (string, error)
	UpdateSite(ctx context.Context, siteID string, site *domain.Site) error
	DeleteSite(ctx context.Context, siteID string) error
}

type siteService struct {
	sitesRepo repository.SitesRepository
	logger    *zap.Logger
}

// NewSiteService 创建 SiteService 实例
func NewSiteService(sitesRepo repository.SitesRepository, logger *zap.Logger) SiteService {
	return &siteService{sitesRepo: sitesRepo, logger: logger}
}

// ListSitesRequest 查询站点列表请求
type ListSitesRequest struct {
	Status string // 可选
	Search string // 可选：模糊搜索 site_name, city
	Page   int    // 可选，默认 1
	Size   int    // 可选，默认 20
}

// ListSitesResponse 查询站点列表响应
type ListSitesResponse struct {
	Items []*domain.Site
	Total int
}

func (s *siteService) ListSites(ctx context.Context, req ListSitesRequest) (*ListSitesResponse, error) {
	filters := repository.SiteFilters{
		Status: strings.TrimSpace(req.Status),
		Search: strings.TrimSpace(req.Search),
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 {
		size = 20
	}

	items, total, err := s.sitesRepo.ListSites(ctx, filters, page, size)
	if err != nil {
		s.logger.Error("ListSites failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list sites")
	}
	return &ListSitesResponse{Items: items, Total: total}, nil
}

func (s *siteService) GetSite(ctx context.Context, siteID string) (*domain.Site, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	return s.sitesRepo.GetSite(ctx, siteID)
}

func (s *siteService) CreateSite(ctx context.Context, site *domain.Site) (string, error) {
	if site == nil || strings.TrimSpace(site.SiteName) == "" {
		return "", fmt.Errorf("site_name is required")
	}
	site.SiteName = strings.TrimSpace(site.SiteName)

	id, err := s.sitesRepo.CreateSite(ctx, site)
	if err != nil {
		s.logger.Error("CreateSite failed", zap.String("site_name", site.SiteName), zap.Error(err))
		return "", fmt.Errorf("failed to create site")
	}
	return id, nil
}

func (s *siteService) UpdateSite(ctx context.Context, siteID string, site *domain.Site) error {
	if siteID == "" {
		return fmt.Errorf("site_id is required")
	}
	if site == nil || strings.TrimSpace(site.SiteName) == "" {
		return fmt.Errorf("site_name is required")
	}
	return s.sitesRepo.UpdateSite(ctx, siteID, site)
}

func (s *siteService) DeleteSite(ctx context.Context, siteID string) error {
	if siteID == "" {
		return fmt.Errorf("site_id is required")
	}
	if err := s.sitesRepo.DeleteSite(ctx, siteID); err != nil {
		return err
	}
	s.logger.Info("site deleted", zap.String("site_id", siteID))
	return nil
}
