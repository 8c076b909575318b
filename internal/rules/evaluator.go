package rules

import (
	"fmt"

	"luxgrid-data/internal/domain"

	"go.uber.org/zap"
)

// Event 被评估的事件（来自模拟器或 MQTT 遥测）
type Event struct {
	EventType string  `json:"event_type"` // motion / daylight / schedule
	ZoneID    string  `json:"zone_id,omitempty"`
	Lux       float64 `json:"lux,omitempty"`
	Clock     string  `json:"clock,omitempty"` // "HH:MM"
}

// Outcome 单条规则的评估结果：布尔 + 可读原因
type Outcome struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Matched  bool   `json:"matched"`
	Reason   string `json:"reason"`
}

// Evaluator 规则评估器
// 无状态：每次评估只看 rule + event，不依赖历史
type Evaluator struct {
	logger *zap.Logger

	// 按触发类型分发
	motion   *MotionEvaluator
	daylight *DaylightEvaluator
	schedule *ScheduleEvaluator
}

// NewEvaluator 创建评估器
func NewEvaluator(logger *zap.Logger) *Evaluator {
	e := &Evaluator{logger: logger}
	e.motion = NewMotionEvaluator()
	e.daylight = NewDaylightEvaluator()
	e.schedule = NewScheduleEvaluator()
	return e
}

// Evaluate 评估单条规则
// 公共检查（enabled、触发类型匹配）在这里做，条件比较交给各触发类型评估器
func (e *Evaluator) Evaluate(rule *domain.Rule, event Event) Outcome {
	out := Outcome{RuleID: rule.RuleID, RuleName: rule.RuleName}

	if !rule.Enabled {
		out.Reason = "rule is disabled"
		return out
	}
	if event.EventType != rule.TriggerType {
		out.Reason = fmt.Sprintf("trigger type mismatch: rule expects %q, event is %q",
			rule.TriggerType, event.EventType)
		return out
	}

	cfg := rule.ParseTriggerConfig()
	switch rule.TriggerType {
	case domain.TriggerTypeMotion:
		out.Matched, out.Reason = e.motion.Evaluate(cfg, event)
	case domain.TriggerTypeDaylight:
		out.Matched, out.Reason = e.daylight.Evaluate(cfg, event)
	case domain.TriggerTypeSchedule:
		out.Matched, out.Reason = e.schedule.Evaluate(cfg, event)
	default:
		out.Reason = fmt.Sprintf("unknown trigger type %q", rule.TriggerType)
	}
	return out
}

// EvaluateAll 用一个事件评估一组规则，返回每条规则的结果和命中规则的动作
func (e *Evaluator) EvaluateAll(rulesList []*domain.Rule, event Event) ([]Outcome, []domain.ActionData) {
	outcomes := make([]Outcome, 0, len(rulesList))
	var actions []domain.ActionData

	for _, r := range rulesList {
		out := e.Evaluate(r, event)
		outcomes = append(outcomes, out)
		if out.Matched {
			actions = append(actions, r.ParseAction())
			e.logger.Info("rule matched",
				zap.String("rule_id", r.RuleID),
				zap.String("rule_name", r.RuleName),
				zap.String("event_type", event.EventType),
				zap.String("reason", out.Reason),
			)
		}
	}
	return outcomes, actions
}
