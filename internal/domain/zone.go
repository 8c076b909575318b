package domain

import (
	"database/sql"
	"encoding/json"
)

// Zone 区域领域模型（对应 zones 表）
// floor plan 上的命名多边形区域，规则以 zone 为目标
type Zone struct {
	ZoneID     string `db:"zone_id"`
	SiteID     string `db:"site_id"`     // NOT NULL
	LocationID string `db:"location_id"` // NOT NULL, FK -> locations, ON DELETE CASCADE
	ZoneName   string `db:"zone_name"`   // NOT NULL

	Polygon sql.NullString `db:"polygon"` // nullable, JSONB: [{"x":..,"y":..}, ...]
	Color   sql.NullString `db:"color"`   // nullable, 如 "#ffcc00"
}

// PolygonPoint floor plan 坐标点（归一化 0..1）
type PolygonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PolygonPoints 解析 polygon JSONB；解析失败或为空时返回 nil
func (z *Zone) PolygonPoints() []PolygonPoint {
	if !z.Polygon.Valid {
		return nil
	}
	var pts []PolygonPoint
	if err := json.Unmarshal([]byte(z.Polygon.String), &pts); err != nil {
		return nil
	}
	return pts
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (z *Zone) ToJSON() map[string]any {
	m := map[string]any{
		"zone_id":     z.ZoneID,
		"site_id":     z.SiteID,
		"location_id": z.LocationID,
		"zone_name":   z.ZoneName,
	}
	if z.Polygon.Valid {
		var pts any
		if err := json.Unmarshal([]byte(z.Polygon.String), &pts); err == nil {
			m["polygon"] = pts
		} else {
			m["polygon"] = z.Polygon.String
		}
	}
	if z.Color.Valid {
		m["color"] = z.Color.String
	}
	return m
}
