package domain

import (
	"database/sql"
)

// Location 位置领域模型（对应 locations 表）
// 站点内的层级区域：floor -> room -> area，通过 parent_id 自引用构成树
type Location struct {
	LocationID   string         `db:"location_id"`
	SiteID       string         `db:"site_id"`   // NOT NULL
	ParentID     sql.NullString `db:"parent_id"` // nullable, self-reference, ON DELETE CASCADE
	LocationName string         `db:"location_name"`
	LocationType string         `db:"location_type"`  // NOT NULL: floor / room / area
	FloorPlanKey sql.NullString `db:"floor_plan_key"` // nullable, 对象存储里 floor plan 图片的 key
}

const (
	LocationTypeFloor = "floor"
	LocationTypeRoom  = "room"
	LocationTypeArea  = "area"
)

// ToJSON 转换为JSON格式（用于HTTP响应）
func (l *Location) ToJSON() map[string]any {
	m := map[string]any{
		"location_id":   l.LocationID,
		"site_id":       l.SiteID,
		"location_name": l.LocationName,
		"location_type": l.LocationType,
	}
	if l.ParentID.Valid {
		m["parent_id"] = l.ParentID.String
	} else {
		m["parent_id"] = nil
	}
	if l.FloorPlanKey.Valid {
		m["floor_plan_key"] = l.FloorPlanKey.String
	}
	return m
}
