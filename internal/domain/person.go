package domain

import (
	"database/sql"
)

// Person 人员领域模型（对应 people 表）
type Person struct {
	PersonID string `db:"person_id"`
	SiteID   string `db:"site_id"` // NOT NULL

	PersonName string         `db:"person_name"` // NOT NULL
	Email      sql.NullString `db:"email"`       // nullable
	Phone      sql.NullString `db:"phone"`       // nullable
	Role       string         `db:"role"`        // NOT NULL, default 'staff'
	Status     string         `db:"status"`      // NOT NULL, default 'active'
}

const (
	PersonRoleAdmin   = "admin"
	PersonRoleManager = "manager"
	PersonRoleStaff   = "staff"
)

// ToJSON 转换为JSON格式（用于HTTP响应）
func (p *Person) ToJSON() map[string]any {
	m := map[string]any{
		"person_id":   p.PersonID,
		"site_id":     p.SiteID,
		"person_name": p.PersonName,
		"role":        p.Role,
		"status":      p.Status,
	}
	if p.Email.Valid {
		m["email"] = p.Email.String
	}
	if p.Phone.Valid {
		m["phone"] = p.Phone.String
	}
	return m
}
