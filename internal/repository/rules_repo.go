package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// RulesRepository 规则Repository接口
type RulesRepository interface {
	// ListRules enabledOnly=true 时只返回启用的规则（模拟器/遥测评估用）
	ListRules(ctx context.Context, siteID string, enabledOnly bool) ([]*domain.Rule, error)
	GetRule(ctx context.Context, siteID, ruleID string) (*domain.Rule, error)
	CreateRule(ctx context.Context, siteID string, rule *domain.Rule) (string, error)
	UpdateRule(ctx context.Context, siteID, ruleID string, rule *domain.Rule) error
	DeleteRule(ctx context.Context, siteID, ruleID string) error
}
