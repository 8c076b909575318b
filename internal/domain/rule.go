package domain

import (
	"database/sql"
	"encoding/json"
)

// Rule 规则领域模型（对应 rules 表）
// trigger/condition/action：按触发类型匹配模拟或实时事件
type Rule struct {
	RuleID   string `db:"rule_id"`
	SiteID   string `db:"site_id"` // NOT NULL
	RuleName string `db:"rule_name"` // NOT NULL

	Enabled     bool   `db:"enabled"`      // NOT NULL, default true
	TriggerType string `db:"trigger_type"` // NOT NULL: motion / daylight / schedule

	TriggerConfig sql.NullString `db:"trigger_config"` // nullable, JSONB
	Action        sql.NullString `db:"action"`         // nullable, JSONB

	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// 触发类型枚举
const (
	TriggerTypeMotion   = "motion"
	TriggerTypeDaylight = "daylight"
	TriggerTypeSchedule = "schedule"
)

// ValidTriggerType 校验触发类型枚举
func ValidTriggerType(t string) bool {
	switch t {
	case TriggerTypeMotion, TriggerTypeDaylight, TriggerTypeSchedule:
		return true
	}
	return false
}

// TriggerConfigData 触发条件（trigger_config JSONB 的结构）
// 三种触发类型共用一个结构，按类型取用字段
type TriggerConfigData struct {
	ZoneID       string   `json:"zone_id,omitempty"`       // motion
	Op           string   `json:"op,omitempty"`            // daylight: lt / lte / gt / gte
	ThresholdLux *float64 `json:"threshold_lux,omitempty"` // daylight
	At           string   `json:"at,omitempty"`            // schedule: "HH:MM"
}

// ActionData 规则动作（action JSONB 的结构）
type ActionData struct {
	Command       string `json:"command"` // set_level / set_scene / notify
	Level         *int   `json:"level,omitempty"`
	Scene         string `json:"scene,omitempty"`
	TargetGroupID string `json:"target_group_id,omitempty"`
	TargetZoneID  string `json:"target_zone_id,omitempty"`
}

// ParseTriggerConfig 解析 trigger_config；缺失或解析失败时返回零值
// （缺字段走默认值是规则评估的约定）
func (r *Rule) ParseTriggerConfig() TriggerConfigData {
	var tc TriggerConfigData
	if r.TriggerConfig.Valid {
		_ = json.Unmarshal([]byte(r.TriggerConfig.String), &tc)
	}
	return tc
}

// ParseAction 解析 action；缺失或解析失败时返回零值
func (r *Rule) ParseAction() ActionData {
	var a ActionData
	if r.Action.Valid {
		_ = json.Unmarshal([]byte(r.Action.String), &a)
	}
	return a
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (r *Rule) ToJSON() map[string]any {
	m := map[string]any{
		"rule_id":      r.RuleID,
		"site_id":      r.SiteID,
		"rule_name":    r.RuleName,
		"enabled":      r.Enabled,
		"trigger_type": r.TriggerType,
	}
	if r.TriggerConfig.Valid {
		var tc any
		if err := json.Unmarshal([]byte(r.TriggerConfig.String), &tc); err == nil {
			m["trigger_config"] = tc
		} else {
			m["trigger_config"] = r.TriggerConfig.String
		}
	}
	if r.Action.Valid {
		var a any
		if err := json.Unmarshal([]byte(r.Action.String), &a); err == nil {
			m["action"] = a
		} else {
			m["action"] = r.Action.String
		}
	}
	if r.CreatedAt.Valid {
		m["created_at"] = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		m["updated_at"] = r.UpdatedAt.Time
	}
	return m
}
