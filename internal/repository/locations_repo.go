package repository

import (
	"context"
	"encoding/json"

	"luxgrid-data/internal/domain"
)

// LocationsRepository 位置Repository接口
type LocationsRepository interface {
	// ListLocations parentID 为空时返回站点下全部位置
	ListLocations(ctx context.Context, siteID string, parentID string) ([]*domain.Location, error)
	GetLocation(ctx context.Context, siteID, locationID string) (*domain.Location, error)
	CreateLocation(ctx context.Context, siteID string, loc *domain.Location) (string, error)
	UpdateLocation(ctx context.Context, siteID, locationID string, loc *domain.Location) error
	// DeleteLocation 子位置、zone 由 DB 级联删除
	DeleteLocation(ctx context.Context, siteID, locationID string) error
}

// LocationNode 位置树节点（用于 tree 视图）
type LocationNode struct {
	Location *domain.Location
	Children []*LocationNode
}

// MarshalJSON 位置字段平铺 + children 数组
func (n *LocationNode) MarshalJSON() ([]byte, error) {
	m := n.Location.ToJSON()
	children := n.Children
	if children == nil {
		children = []*LocationNode{}
	}
	m["children"] = children
	return json.Marshal(m)
}

// BuildLocationTree 把平铺位置列表组装成树
// parent_id 指向不存在节点的记录按根节点处理（不丢数据）
func BuildLocationTree(locations []*domain.Location) []*LocationNode {
	nodes := make(map[string]*LocationNode, len(locations))
	for _, l := range locations {
		nodes[l.LocationID] = &LocationNode{Location: l}
	}

	var roots []*LocationNode
	for _, l := range locations {
		n := nodes[l.LocationID]
		if l.ParentID.Valid {
			if parent, ok := nodes[l.ParentID.String]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
