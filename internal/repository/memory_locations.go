package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryLocationsRepo: 用于 DB 未就绪时的联测
// 级联删除在内存里手动做（DB 版本靠外键）
type MemoryLocationsRepo struct {
	mu        sync.RWMutex
	locations map[string]map[string]domain.Location // siteID -> locationID -> Location
}

func NewMemoryLocationsRepo() *MemoryLocationsRepo {
	return &MemoryLocationsRepo{locations: map[string]map[string]domain.Location{}}
}

func (r *MemoryLocationsRepo) ListLocations(_ context.Context, siteID string, parentID string) ([]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Location{}
	for id := range r.locations[siteID] {
		l := r.locations[siteID][id]
		if parentID != "" && (!l.ParentID.Valid || l.ParentID.String != parentID) {
			continue
		}
		lc := l
		out = append(out, &lc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationType != out[j].LocationType {
			return out[i].LocationType < out[j].LocationType
		}
		return out[i].LocationName < out[j].LocationName
	})
	return out, nil
}

func (r *MemoryLocationsRepo) GetLocation(_ context.Context, siteID, locationID string) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.locations[siteID][locationID]
	if !ok {
		return nil, fmt.Errorf("location not found: location_id=%s", locationID)
	}
	return &l, nil
}

func (r *MemoryLocationsRepo) CreateLocation(_ context.Context, siteID string, loc *domain.Location) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if loc == nil || loc.LocationName == "" {
		return "", fmt.Errorf("location_name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if loc.ParentID.Valid {
		if _, ok := r.locations[siteID][loc.ParentID.String]; !ok {
			return "", fmt.Errorf("parent location not found in site: parent_id=%s", loc.ParentID.String)
		}
	}

	if r.locations[siteID] == nil {
		r.locations[siteID] = map[string]domain.Location{}
	}
	id := uuid.NewString()
	l := *loc
	l.LocationID = id
	l.SiteID = siteID
	if l.LocationType == "" {
		l.LocationType = domain.LocationTypeArea
	}
	r.locations[siteID][id] = l
	return id, nil
}

func (r *MemoryLocationsRepo) UpdateLocation(_ context.Context, siteID, locationID string, loc *domain.Location) error {
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	if loc.ParentID.Valid && loc.ParentID.String == locationID {
		return fmt.Errorf("location cannot be its own parent")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[siteID][locationID]; !ok {
		return fmt.Errorf("location not found: location_id=%s", locationID)
	}
	l := *loc
	l.LocationID = locationID
	l.SiteID = siteID
	r.locations[siteID][locationID] = l
	return nil
}

func (r *MemoryLocationsRepo) DeleteLocation(_ context.Context, siteID, locationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[siteID][locationID]; !ok {
		return fmt.Errorf("location not found: location_id=%s", locationID)
	}
	// 级联删除子树
	r.deleteSubtree(siteID, locationID)
	return nil
}

func (r *MemoryLocationsRepo) deleteSubtree(siteID, locationID string) {
	delete(r.locations[siteID], locationID)
	for id, l := range r.locations[siteID] {
		if l.ParentID.Valid && l.ParentID.String == locationID {
			r.deleteSubtree(siteID, id)
		}
	}
}
