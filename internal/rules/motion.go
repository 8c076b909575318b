package rules

import (
	"fmt"

	"luxgrid-data/internal/domain"
)

// MotionEvaluator motion 触发评估器：zone 字符串相等比较
type MotionEvaluator struct{}

// NewMotionEvaluator 创建 motion 评估器
func NewMotionEvaluator() *MotionEvaluator {
	return &MotionEvaluator{}
}

// Evaluate 评估 motion 条件
// 规则未配置 zone_id 时永不命中（而不是命中所有 zone）
func (e *MotionEvaluator) Evaluate(cfg domain.TriggerConfigData, event Event) (bool, string) {
	if cfg.ZoneID == "" {
		return false, "rule has no zone_id configured"
	}
	if event.ZoneID == "" {
		return false, fmt.Sprintf("event has no zone, rule targets zone %q", cfg.ZoneID)
	}
	if event.ZoneID == cfg.ZoneID {
		return true, fmt.Sprintf("motion in zone %q matches rule zone", event.ZoneID)
	}
	return false, fmt.Sprintf("motion in zone %q does not match rule zone %q", event.ZoneID, cfg.ZoneID)
}
