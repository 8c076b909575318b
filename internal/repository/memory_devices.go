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

// MemoryDevicesRepo: 用于 DB 未就绪时的联测（含 components 子实体）
type MemoryDevicesRepo struct {
	mu         sync.RWMutex
	devices    map[string]map[string]domain.Device    // siteID -> deviceID -> Device
	components map[string]map[string]domain.Component // siteID -> componentID -> Component
}

func NewMemoryDevicesRepo() *MemoryDevicesRepo {
	return &MemoryDevicesRepo{
		devices:    map[string]map[string]domain.Device{},
		components: map[string]map[string]domain.Component{},
	}
}

func (r *MemoryDevicesRepo) ListDevices(_ context.Context, siteID string, filters DeviceFilters, page, size int) ([]*domain.Device, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Device{}
	for id := range r.devices[siteID] {
		d := r.devices[siteID][id]
		if len(filters.Status) > 0 && !containsString(filters.Status, d.Status) {
			continue
		}
		if filters.DeviceType != "" && d.DeviceType != filters.DeviceType {
			continue
		}
		if filters.ZoneID != "" && (!d.ZoneID.Valid || d.ZoneID.String != filters.ZoneID) {
			continue
		}
		if filters.LocationID != "" && (!d.LocationID.Valid || d.LocationID.String != filters.LocationID) {
			continue
		}
		if filters.SearchKeyword != "" {
			kw := strings.ToLower(filters.SearchKeyword)
			if !strings.Contains(strings.ToLower(d.DeviceName), kw) &&
				!(d.SerialNumber.Valid && strings.Contains(strings.ToLower(d.SerialNumber.String), kw)) {
				continue
			}
		}
		dc := d
		all = append(all, &dc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DeviceName < all[j].DeviceName })

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []*domain.Device{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func containsString(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}

func (r *MemoryDevicesRepo) GetDevice(_ context.Context, siteID, deviceID string) (*domain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[siteID][deviceID]
	if !ok {
		return nil, fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	return &d, nil
}

func (r *MemoryDevicesRepo) CreateDevice(_ context.Context, siteID string, device *domain.Device) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if device == nil || device.DeviceName == "" {
		return "", fmt.Errorf("device_name is required")
	}
	if !domain.ValidDeviceType(device.DeviceType) {
		return "", fmt.Errorf("invalid device_type: %s", device.DeviceType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.devices[siteID] == nil {
		r.devices[siteID] = map[string]domain.Device{}
	}
	id := uuid.NewString()
	d := *device
	d.DeviceID = id
	d.SiteID = siteID
	if d.Status == "" {
		d.Status = domain.DeviceStatusOffline
	}
	r.devices[siteID][id] = d
	return id, nil
}

func (r *MemoryDevicesRepo) UpdateDevice(_ context.Context, siteID, deviceID string, device *domain.Device) error {
	if device == nil {
		return fmt.Errorf("device is required")
	}
	if device.DeviceType != "" && !domain.ValidDeviceType(device.DeviceType) {
		return fmt.Errorf("invalid device_type: %s", device.DeviceType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[siteID][deviceID]; !ok {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	d := *device
	d.DeviceID = deviceID
	d.SiteID = siteID
	r.devices[siteID][deviceID] = d
	return nil
}

func (r *MemoryDevicesRepo) DeleteDevice(_ context.Context, siteID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[siteID][deviceID]; !ok {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	delete(r.devices[siteID], deviceID)
	// 级联删除 components
	for id, c := range r.components[siteID] {
		if c.DeviceID == deviceID {
			delete(r.components[siteID], id)
		}
	}
	return nil
}

func (r *MemoryDevicesRepo) UpdateDeviceStatus(_ context.Context, siteID, deviceID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[siteID][deviceID]
	if !ok {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	d.Status = status
	r.devices[siteID][deviceID] = d
	return nil
}

// ---- components ----

func (r *MemoryDevicesRepo) ListComponents(_ context.Context, siteID, deviceID string) ([]*domain.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Component{}
	for id := range r.components[siteID] {
		c := r.components[siteID][id]
		if c.DeviceID != deviceID {
			continue
		}
		cc := c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentKind < out[j].ComponentKind })
	return out, nil
}

func (r *MemoryDevicesRepo) GetComponent(_ context.Context, siteID, componentID string) (*domain.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[siteID][componentID]
	if !ok {
		return nil, fmt.Errorf("component not found: component_id=%s", componentID)
	}
	return &c, nil
}

func (r *MemoryDevicesRepo) CreateComponent(_ context.Context, siteID, deviceID string, comp *domain.Component) (string, error) {
	if comp == nil || comp.ComponentKind == "" {
		return "", fmt.Errorf("component_kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[siteID][deviceID]; !ok {
		return "", fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	if r.components[siteID] == nil {
		r.components[siteID] = map[string]domain.Component{}
	}
	id := uuid.NewString()
	c := *comp
	c.ComponentID = id
	c.DeviceID = deviceID
	c.SiteID = siteID
	if c.Status == "" {
		c.Status = "ok"
	}
	r.components[siteID][id] = c
	return id, nil
}

func (r *MemoryDevicesRepo) UpdateComponent(_ context.Context, siteID, componentID string, comp *domain.Component) error {
	if comp == nil {
		return fmt.Errorf("component is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.components[siteID][componentID]
	if !ok {
		return fmt.Errorf("component not found: component_id=%s", componentID)
	}
	c := *comp
	c.ComponentID = componentID
	c.DeviceID = old.DeviceID
	c.SiteID = siteID
	r.components[siteID][componentID] = c
	return nil
}

func (r *MemoryDevicesRepo) DeleteComponent(_ context.Context, siteID, componentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[siteID][componentID]; !ok {
		return fmt.Errorf("component not found: component_id=%s", componentID)
	}
	delete(r.components[siteID], componentID)
	return nil
}
