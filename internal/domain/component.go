package domain

import (
	"database/sql"
)

// Component 设备部件领域模型（对应 components 表）
// 设备的子部件：驱动器、灯模块、继电器、通信模块等
type Component struct {
	ComponentID string `db:"component_id"`
	DeviceID    string `db:"device_id"` // NOT NULL, FK -> devices, ON DELETE CASCADE
	SiteID      string `db:"site_id"`   // NOT NULL

	ComponentKind   string         `db:"component_kind"` // NOT NULL: driver / lamp_module / relay / radio
	Model           sql.NullString `db:"model"`            // nullable
	FirmwareVersion sql.NullString `db:"firmware_version"` // nullable
	Status          string         `db:"status"`           // NOT NULL, default 'ok'
}

const (
	ComponentKindDriver     = "driver"
	ComponentKindLampModule = "lamp_module"
	ComponentKindRelay      = "relay"
	ComponentKindRadio      = "radio"
)

// ToJSON 转换为JSON格式（用于HTTP响应）
func (c *Component) ToJSON() map[string]any {
	m := map[string]any{
		"component_id":   c.ComponentID,
		"device_id":      c.DeviceID,
		"site_id":        c.SiteID,
		"component_kind": c.ComponentKind,
		"status":         c.Status,
	}
	if c.Model.Valid {
		m["model"] = c.Model.String
	}
	if c.FirmwareVersion.Valid {
		m["firmware_version"] = c.FirmwareVersion.String
	}
	return m
}
