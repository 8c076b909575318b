package domain

import (
	"database/sql"
	"encoding/json"
)

// Site 站点领域模型（对应 sites 表）
// 一个站点 = 一个物理门店
type Site struct {
	SiteID   string `db:"site_id"`
	SiteName string `db:"site_name"` // NOT NULL

	Address  sql.NullString `db:"address"`  // nullable
	City     sql.NullString `db:"city"`     // nullable
	Timezone string         `db:"timezone"` // NOT NULL, default 'UTC'
	Status   string         `db:"status"`   // NOT NULL, default 'active'

	Metadata sql.NullString `db:"metadata"` // nullable, JSONB

	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

const (
	SiteStatusActive   = "active"
	SiteStatusInactive = "inactive"
)

// ToJSON 转换为JSON格式（用于HTTP响应）
func (s *Site) ToJSON() map[string]any {
	m := map[string]any{
		"site_id":   s.SiteID,
		"site_name": s.SiteName,
		"timezone":  s.Timezone,
		"status":    s.Status,
	}
	if s.Address.Valid {
		m["address"] = s.Address.String
	}
	if s.City.Valid {
		m["city"] = s.City.String
	}
	if s.Metadata.Valid {
		// 尝试解析JSON，如果失败则返回字符串
		var jsonData any
		if err := json.Unmarshal([]byte(s.Metadata.String), &jsonData); err == nil {
			m["metadata"] = jsonData
		} else {
			m["metadata"] = s.Metadata.String
		}
	}
	if s.CreatedAt.Valid {
		m["created_at"] = s.CreatedAt.Time
	}
	if s.UpdatedAt.Valid {
		m["updated_at"] = s.UpdatedAt.Time
	}
	return m
}
