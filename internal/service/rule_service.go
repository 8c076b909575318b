package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"
	"luxgrid-data/internal/rules"

	"go.uber.org/zap"
)

// RuleService 规则管理 + 模拟评估服务接口
type RuleService interface {
	ListRules(ctx context.Context, siteID string, enabledOnly bool) ([]*domain.Rule, error)
	GetRule(ctx context.Context, siteID, ruleID string) (*domain.Rule, error)
	CreateRule(ctx context.Context, siteID string, rule *domain.Rule) (string, error)
	UpdateRule(ctx context.Context, siteID, ruleID string, rule *domain.Rule) error
	DeleteRule(ctx context.Context, siteID, ruleID string) error

	// Simulate 用一个模拟事件评估站点的所有启用规则
	Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error)
}

type ruleService struct {
	rulesRepo repository.RulesRepository
	evaluator *rules.Evaluator
	logger    *zap.Logger
}

// NewRuleService 创建 RuleService 实例
func NewRuleService(rulesRepo repository.RulesRepository, evaluator *rules.Evaluator, logger *zap.Logger) RuleService {
	return &ruleService{
		rulesRepo: rulesRepo,
		evaluator: evaluator,
		logger:    logger,
	}
}

func (s *ruleService) ListRules(ctx context.Context, siteID string, enabledOnly bool) ([]*domain.Rule, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	items, err := s.rulesRepo.ListRules(ctx, siteID, enabledOnly)
	if err != nil {
		s.logger.Error("ListRules failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, fmt.Errorf("failed to list rules")
	}
	return items, nil
}

func (s *ruleService) GetRule(ctx context.Context, siteID, ruleID string) (*domain.Rule, error) {
	if siteID == "" || ruleID == "" {
		return nil, fmt.Errorf("site_id and rule_id are required")
	}
	return s.rulesRepo.GetRule(ctx, siteID, ruleID)
}

func (s *ruleService) CreateRule(ctx context.Context, siteID string, rule *domain.Rule) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if rule == nil || strings.TrimSpace(rule.RuleName) == "" {
		return "", fmt.Errorf("rule_name is required")
	}
	if !domain.ValidTriggerType(rule.TriggerType) {
		return "", fmt.Errorf("invalid trigger_type: %s", rule.TriggerType)
	}
	rule.RuleName = strings.TrimSpace(rule.RuleName)

	id, err := s.rulesRepo.CreateRule(ctx, siteID, rule)
	if err != nil {
		s.logger.Error("CreateRule failed", zap.String("site_id", siteID), zap.Error(err))
		return "", fmt.Errorf("failed to create rule")
	}
	return id, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, siteID, ruleID string, rule *domain.Rule) error {
	if siteID == "" || ruleID == "" {
		return fmt.Errorf("site_id and rule_id are required")
	}
	if rule == nil || strings.TrimSpace(rule.RuleName) == "" {
		return fmt.Errorf("rule_name is required")
	}
	return s.rulesRepo.UpdateRule(ctx, siteID, ruleID, rule)
}

func (s *ruleService) DeleteRule(ctx context.Context, siteID, ruleID string) error {
	if siteID == "" || ruleID == "" {
		return fmt.Errorf("site_id and rule_id are required")
	}
	return s.rulesRepo.DeleteRule(ctx, siteID, ruleID)
}

// SimulateRequest 模拟评估请求
type SimulateRequest struct {
	SiteID string      `json:"site_id"`
	Event  rules.Event `json:"event"`
}

// SimulateResponse 模拟评估响应
type SimulateResponse struct {
	Outcomes []rules.Outcome     `json:"outcomes"`
	Actions  []domain.ActionData `json:"actions"`
}

// Simulate 只评估启用的规则；禁用规则不出现在结果里
func (s *ruleService) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error) {
	if req.SiteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}
	if !domain.ValidTriggerType(req.Event.EventType) {
		return nil, fmt.Errorf("invalid event_type: %s", req.Event.EventType)
	}

	ruleList, err := s.rulesRepo.ListRules(ctx, req.SiteID, true)
	if err != nil {
		s.logger.Error("Simulate failed to load rules", zap.String("site_id", req.SiteID), zap.Error(err))
		return nil, fmt.Errorf("failed to load rules")
	}

	outcomes, actions := s.evaluator.EvaluateAll(ruleList, req.Event)
	if actions == nil {
		actions = []domain.ActionData{}
	}
	return &SimulateResponse{Outcomes: outcomes, Actions: actions}, nil
}
