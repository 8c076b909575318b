package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryGroupsRepo: 用于 DB 未就绪时的联测
type MemoryGroupsRepo struct {
	mu     sync.RWMutex
	groups map[string]map[string]domain.Group // siteID -> groupID -> Group
}

func NewMemoryGroupsRepo() *MemoryGroupsRepo {
	return &MemoryGroupsRepo{groups: map[string]map[string]domain.Group{}}
}

func copyGroup(g domain.Group) *domain.Group {
	gc := g
	gc.PersonIDs = append([]string{}, g.PersonIDs...)
	gc.DeviceIDs = append([]string{}, g.DeviceIDs...)
	return &gc
}

func (r *MemoryGroupsRepo) ListGroups(_ context.Context, siteID string) ([]*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Group{}
	for id := range r.groups[siteID] {
		out = append(out, copyGroup(r.groups[siteID][id]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupName < out[j].GroupName })
	return out, nil
}

func (r *MemoryGroupsRepo) GetGroup(_ context.Context, siteID, groupID string) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[siteID][groupID]
	if !ok {
		return nil, fmt.Errorf("group not found: group_id=%s", groupID)
	}
	return copyGroup(g), nil
}

func (r *MemoryGroupsRepo) CreateGroup(_ context.Context, siteID string, group *domain.Group) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if group == nil || group.GroupName == "" {
		return "", fmt.Errorf("group_name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.groups[siteID] == nil {
		r.groups[siteID] = map[string]domain.Group{}
	}
	id := uuid.NewString()
	g := *copyGroup(*group)
	g.GroupID = id
	g.SiteID = siteID
	r.groups[siteID][id] = g
	return id, nil
}

func (r *MemoryGroupsRepo) UpdateGroup(_ context.Context, siteID, groupID string, group *domain.Group) error {
	if group == nil {
		return fmt.Errorf("group is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[siteID][groupID]; !ok {
		return fmt.Errorf("group not found: group_id=%s", groupID)
	}
	g := *copyGroup(*group)
	g.GroupID = groupID
	g.SiteID = siteID
	r.groups[siteID][groupID] = g
	return nil
}

func (r *MemoryGroupsRepo) DeleteGroup(_ context.Context, siteID, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[siteID][groupID]; !ok {
		return fmt.Errorf("group not found: group_id=%s", groupID)
	}
	delete(r.groups[siteID], groupID)
	return nil
}
