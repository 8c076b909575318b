package rules

import (
	"fmt"

	"luxgrid-data/internal/domain"
)

// ScheduleEvaluator schedule 触发评估器："HH:MM" 时间串相等比较
type ScheduleEvaluator struct{}

// NewScheduleEvaluator 创建 schedule 评估器
func NewScheduleEvaluator() *ScheduleEvaluator {
	return &ScheduleEvaluator{}
}

// Evaluate 评估 schedule 条件
func (e *ScheduleEvaluator) Evaluate(cfg domain.TriggerConfigData, event Event) (bool, string) {
	if cfg.At == "" {
		return false, "rule has no schedule time configured"
	}
	if event.Clock == "" {
		return false, fmt.Sprintf("event has no clock, rule fires at %q", cfg.At)
	}
	if event.Clock == cfg.At {
		return true, fmt.Sprintf("clock %q matches schedule time", event.Clock)
	}
	return false, fmt.Sprintf("clock %q does not match schedule time %q", event.Clock, cfg.At)
}
