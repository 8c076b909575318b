package domain

import (
	"database/sql"
)

// Group 分组领域模型（对应 groups 表）
// 一个站点下人员 + 设备的命名集合
// 成员关系存 group_people / group_devices 关联表（ON DELETE CASCADE），
// HTTP 层以 person_ids / device_ids 数组暴露
type Group struct {
	GroupID     string         `db:"group_id"`
	SiteID      string         `db:"site_id"` // NOT NULL
	GroupName   string         `db:"group_name"` // NOT NULL
	Description sql.NullString `db:"description"` // nullable

	// 成员（由 repository 装配，不是 groups 表字段）
	PersonIDs []string `db:"-"`
	DeviceIDs []string `db:"-"`
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (g *Group) ToJSON() map[string]any {
	personIDs := g.PersonIDs
	if personIDs == nil {
		personIDs = []string{}
	}
	deviceIDs := g.DeviceIDs
	if deviceIDs == nil {
		deviceIDs = []string{}
	}
	m := map[string]any{
		"group_id":   g.GroupID,
		"site_id":    g.SiteID,
		"group_name": g.GroupName,
		"person_ids": personIDs,
		"device_ids": deviceIDs,
	}
	if g.Description.Valid {
		m["description"] = g.Description.String
	}
	return m
}
