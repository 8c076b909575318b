package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// GroupsRepository 分组Repository接口
// Create/Update 接收完整的成员 ID 列表，成员关系在一个事务里整体替换
type GroupsRepository interface {
	ListGroups(ctx context.Context, siteID string) ([]*domain.Group, error)
	GetGroup(ctx context.Context, siteID, groupID string) (*domain.Group, error)
	CreateGroup(ctx context.Context, siteID string, group *domain.Group) (string, error)
	UpdateGroup(ctx context.Context, siteID, groupID string, group *domain.Group) error
	DeleteGroup(ctx context.Context, siteID, groupID string) error
}
