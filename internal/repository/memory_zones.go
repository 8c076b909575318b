package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryZonesRepo: 用于 DB 未就绪时的联测
type MemoryZonesRepo struct {
	mu    sync.RWMutex
	zones map[string]map[string]domain.Zone // siteID -> zoneID -> Zone
}

func NewMemoryZonesRepo() *MemoryZonesRepo {
	return &MemoryZonesRepo{zones: map[string]map[string]domain.Zone{}}
}

func (r *MemoryZonesRepo) ListZones(_ context.Context, siteID string, locationID string) ([]*domain.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Zone{}
	for id := range r.zones[siteID] {
		z := r.zones[siteID][id]
		if locationID != "" && z.LocationID != locationID {
			continue
		}
		zc := z
		out = append(out, &zc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZoneName < out[j].ZoneName })
	return out, nil
}

func (r *MemoryZonesRepo) GetZone(_ context.Context, siteID, zoneID string) (*domain.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zones[siteID][zoneID]
	if !ok {
		return nil, fmt.Errorf("zone not found: zone_id=%s", zoneID)
	}
	return &z, nil
}

func (r *MemoryZonesRepo) CreateZone(_ context.Context, siteID string, zone *domain.Zone) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if zone == nil || zone.ZoneName == "" {
		return "", fmt.Errorf("zone_name is required")
	}
	if zone.LocationID == "" {
		return "", fmt.Errorf("location_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.zones[siteID] == nil {
		r.zones[siteID] = map[string]domain.Zone{}
	}
	id := uuid.NewString()
	z := *zone
	z.ZoneID = id
	z.SiteID = siteID
	r.zones[siteID][id] = z
	return id, nil
}

func (r *MemoryZonesRepo) UpdateZone(_ context.Context, siteID, zoneID string, zone *domain.Zone) error {
	if zone == nil {
		return fmt.Errorf("zone is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.zones[siteID][zoneID]; !ok {
		return fmt.Errorf("zone not found: zone_id=%s", zoneID)
	}
	z := *zone
	z.ZoneID = zoneID
	z.SiteID = siteID
	r.zones[siteID][zoneID] = z
	return nil
}

func (r *MemoryZonesRepo) DeleteZone(_ context.Context, siteID, zoneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.zones[siteID][zoneID]; !ok {
		return fmt.Errorf("zone not found: zone_id=%s", zoneID)
	}
	delete(r.zones[siteID], zoneID)
	return nil
}
