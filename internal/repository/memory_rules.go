package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryRulesRepo: 用于 DB 未就绪时的联测 + 单元测试
type MemoryRulesRepo struct {
	mu    sync.RWMutex
	rules map[string]map[string]domain.Rule // siteID -> ruleID -> Rule
}

func NewMemoryRulesRepo() *MemoryRulesRepo {
	return &MemoryRulesRepo{rules: map[string]map[string]domain.Rule{}}
}

func (r *MemoryRulesRepo) ListRules(_ context.Context, siteID string, enabledOnly bool) ([]*domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Rule{}
	for id := range r.rules[siteID] {
		rule := r.rules[siteID][id]
		if enabledOnly && !rule.Enabled {
			continue
		}
		rc := rule
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleName < out[j].RuleName })
	return out, nil
}

func (r *MemoryRulesRepo) GetRule(_ context.Context, siteID, ruleID string) (*domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[siteID][ruleID]
	if !ok {
		return nil, fmt.Errorf("rule not found: rule_id=%s", ruleID)
	}
	return &rule, nil
}

func (r *MemoryRulesRepo) CreateRule(_ context.Context, siteID string, rule *domain.Rule) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if rule == nil || rule.RuleName == "" {
		return "", fmt.Errorf("rule_name is required")
	}
	if !domain.ValidTriggerType(rule.TriggerType) {
		return "", fmt.Errorf("invalid trigger_type: %s", rule.TriggerType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rules[siteID] == nil {
		r.rules[siteID] = map[string]domain.Rule{}
	}
	id := uuid.NewString()
	rc := *rule
	rc.RuleID = id
	rc.SiteID = siteID
	r.rules[siteID][id] = rc
	return id, nil
}

func (r *MemoryRulesRepo) UpdateRule(_ context.Context, siteID, ruleID string, rule *domain.Rule) error {
	if rule == nil {
		return fmt.Errorf("rule is required")
	}
	if rule.TriggerType != "" && !domain.ValidTriggerType(rule.TriggerType) {
		return fmt.Errorf("invalid trigger_type: %s", rule.TriggerType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[siteID][ruleID]; !ok {
		return fmt.Errorf("rule not found: rule_id=%s", ruleID)
	}
	rc := *rule
	rc.RuleID = ruleID
	rc.SiteID = siteID
	r.rules[siteID][ruleID] = rc
	return nil
}

func (r *MemoryRulesRepo) DeleteRule(_ context.Context, siteID, ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[siteID][ruleID]; !ok {
		return fmt.Errorf("rule not found: rule_id=%s", ruleID)
	}
	delete(r.rules[siteID], ruleID)
	return nil
}
