package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemorySitesRepo: 用于 DB 未就绪时的联测
// - IDs 使用 uuid
// - 不做复杂校验/唯一约束
type MemorySitesRepo struct {
	mu    sync.RWMutex
	sites map[string]domain.Site // siteID -> Site
}

func NewMemorySitesRepo() *MemorySitesRepo {
	return &MemorySitesRepo{sites: map[string]domain.Site{}}
}

func (r *MemorySitesRepo) ListSites(_ context.Context, filters SiteFilters, page, size int) ([]*domain.Site, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Site{}
	for id := range r.sites {
		s := r.sites[id]
		if filters.Status != "" && s.Status != filters.Status {
			continue
		}
		if filters.Search != "" {
			kw := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(s.SiteName), kw) &&
				!(s.City.Valid && strings.Contains(strings.ToLower(s.City.String), kw)) {
				continue
			}
		}
		sc := s
		all = append(all, &sc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SiteName < all[j].SiteName })

	total := len(all)
	return paginateSites(all, page, size), total, nil
}

func paginateSites(all []*domain.Site, page, size int) []*domain.Site {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= len(all) {
		return []*domain.Site{}
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (r *MemorySitesRepo) GetSite(_ context.Context, siteID string) (*domain.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sites[siteID]
	if !ok {
		return nil, fmt.Errorf("site not found: site_id=%s", siteID)
	}
	return &s, nil
}

func (r *MemorySitesRepo) CreateSite(_ context.Context, site *domain.Site) (string, error) {
	if site == nil || site.SiteName == "" {
		return "", fmt.Errorf("site_name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	s := *site
	s.SiteID = id
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	if s.Status == "" {
		s.Status = domain.SiteStatusActive
	}
	r.sites[id] = s
	return id, nil
}

func (r *MemorySitesRepo) UpdateSite(_ context.Context, siteID string, site *domain.Site) error {
	if site == nil {
		return fmt.Errorf("site is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sites[siteID]; !ok {
		return fmt.Errorf("site not found: site_id=%s", siteID)
	}
	s := *site
	s.SiteID = siteID
	r.sites[siteID] = s
	return nil
}

func (r *MemorySitesRepo) DeleteSite(_ context.Context, siteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sites[siteID]; !ok {
		return fmt.Errorf("site not found: site_id=%s", siteID)
	}
	delete(r.sites, siteID)
	return nil
}
