package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// GroupService 分组管理服务接口
// 创建/更新校验成员引用（person/device 必须属于同一站点）
type GroupService interface {
	ListGroups(ctx context.Context, siteID string) ([]*domain.Group, error)
	GetGroup(ctx context.Context, siteID, groupID string) (*domain.Group, error)
	CreateGroup(ctx context.Context, siteID string, group *domain.Group) (string, error)
	UpdateGroup(ctx context.Context, siteID, groupID string, group *domain.Group) error
	DeleteGroup(ctx context.Context, siteID, groupID string) error
}

type groupService struct {
	groupsRepo  repository.GroupsRepository
	peopleRepo  repository.PeopleRepository
	devicesRepo repository.DevicesRepository
	logger      *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(
	groupsRepo repository.GroupsRepository,
	peopleRepo repository.PeopleRepository,
	devicesRepo repository.DevicesRepository,
	logger *zap.Logger,
) GroupService {
	return &groupService{
		groupsRepo:  groupsRepo,
		peopleRepo:  peopleRepo,
		devicesRepo: devicesRepo,
		logger:      logger,
	}
}

func (s *groupService) ListGroups(ctx context.Context, siteID string) ([]*domain.Group, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	items, err := s.groupsRepo.ListGroups(ctx, siteID)
	if err != nil {
		s.logger.Error("ListGroups failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, fmt.Errorf("failed to list groups")
	}
	return items, nil
}

func (s *groupService) GetGroup(ctx context.Context, siteID, groupID string) (*domain.Group, error) {
	if siteID == "" || groupID == "" {
		return nil, fmt.Errorf("site_id and group_id are required")
	}
	return s.groupsRepo.GetGroup(ctx, siteID, groupID)
}

func (s *groupService) CreateGroup(ctx context.Context, siteID string, group *domain.Group) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if group == nil || strings.TrimSpace(group.GroupName) == "" {
		return "", fmt.Errorf("group_name is required")
	}
	group.GroupName = strings.TrimSpace(group.GroupName)

	if err := s.validateMembers(ctx, siteID, group); err != nil {
		return "", err
	}

	id, err := s.groupsRepo.CreateGroup(ctx, siteID, group)
	if err != nil {
		s.logger.Error("CreateGroup failed", zap.String("site_id", siteID), zap.Error(err))
		return "", fmt.Errorf("failed to create group")
	}
	return id, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, siteID, groupID string, group *domain.Group) error {
	if siteID == "" || groupID == "" {
		return fmt.Errorf("site_id and group_id are required")
	}
	if group == nil || strings.TrimSpace(group.GroupName) == "" {
		return fmt.Errorf("group_name is required")
	}

	if err := s.validateMembers(ctx, siteID, group); err != nil {
		return err
	}
	return s.groupsRepo.UpdateGroup(ctx, siteID, groupID, group)
}

func (s *groupService) DeleteGroup(ctx context.Context, siteID, groupID string) error {
	if siteID == "" || groupID == "" {
		return fmt.Errorf("site_id and group_id are required")
	}
	return s.groupsRepo.DeleteGroup(ctx, siteID, groupID)
}

// validateMembers 成员必须存在且属于同一站点
func (s *groupService) validateMembers(ctx context.Context, siteID string, group *domain.Group) error {
	for _, pid := range group.PersonIDs {
		if _, err := s.peopleRepo.GetPerson(ctx, siteID, pid); err != nil {
			return fmt.Errorf("person not in site: person_id=%s", pid)
		}
	}
	for _, did := range group.DeviceIDs {
		if _, err := s.devicesRepo.GetDevice(ctx, siteID, did); err != nil {
			return fmt.Errorf("device not in site: device_id=%s", did)
		}
	}
	return nil
}
