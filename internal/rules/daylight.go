package rules

import (
	"fmt"

	"luxgrid-data/internal/domain"
)

// 比较操作符枚举
const (
	OpLT  = "lt"
	OpLTE = "lte"
	OpGT  = "gt"
	OpGTE = "gte"
)

// DaylightEvaluator daylight 触发评估器：照度阈值比较（四种操作符）
type DaylightEvaluator struct{}

// NewDaylightEvaluator 创建 daylight 评估器
func NewDaylightEvaluator() *DaylightEvaluator {
	return &DaylightEvaluator{}
}

// Evaluate 评估 daylight 条件
// 缺省值约定：op 缺失时默认 "lt"，threshold_lux 缺失时默认 0
func (e *DaylightEvaluator) Evaluate(cfg domain.TriggerConfigData, event Event) (bool, string) {
	op := cfg.Op
	if op == "" {
		op = OpLT
	}

	threshold := 0.0
	if cfg.ThresholdLux != nil {
		threshold = *cfg.ThresholdLux
	}

	var matched bool
	var symbol string
	switch op {
	case OpLT:
		matched = event.Lux < threshold
		symbol = "<"
	case OpLTE:
		matched = event.Lux <= threshold
		symbol = "<="
	case OpGT:
		matched = event.Lux > threshold
		symbol = ">"
	case OpGTE:
		matched = event.Lux >= threshold
		symbol = ">="
	default:
		return false, fmt.Sprintf("unknown comparison op %q", op)
	}

	if matched {
		return true, fmt.Sprintf("measured lux %g %s threshold %g", event.Lux, symbol, threshold)
	}
	return false, fmt.Sprintf("measured lux %g is not %s threshold %g", event.Lux, symbol, threshold)
}
