package repository

import (
	"context"
	"database/sql"
	"fmt"

	"luxgrid-data/internal/domain"
)

type PostgresRulesRepo struct {
	db *sql.DB
}

func NewPostgresRulesRepo(db *sql.DB) *PostgresRulesRepo {
	return &PostgresRulesRepo{db: db}
}

const ruleColumns = `
	rule_id::text,
	site_id::text,
	rule_name,
	enabled,
	trigger_type,
	CASE WHEN trigger_config IS NULL THEN NULL ELSE trigger_config::text END as trigger_config,
	CASE WHEN action IS NULL THEN NULL ELSE action::text END as action,
	created_at,
	updated_at
`

func scanRule(scanner interface{ Scan(...any) error }) (*domain.Rule, error) {
	var r domain.Rule
	if err := scanner.Scan(
		&r.RuleID,
		&r.SiteID,
		&r.RuleName,
		&r.Enabled,
		&r.TriggerType,
		&r.TriggerConfig,
		&r.Action,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PostgresRulesRepo) ListRules(ctx context.Context, siteID string, enabledOnly bool) ([]*domain.Rule, error) {
	if siteID == "" {
		return []*domain.Rule{}, nil
	}

	q := `SELECT ` + ruleColumns + ` FROM rules WHERE site_id = $1`
	if enabledOnly {
		q += ` AND enabled`
	}
	q += ` ORDER BY rule_name`

	rows, err := r.db.QueryContext(ctx, q, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *PostgresRulesRepo) GetRule(ctx context.Context, siteID, ruleID string) (*domain.Rule, error) {
	if siteID == "" || ruleID == "" {
		return nil, fmt.Errorf("site_id and rule_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE site_id = $1 AND rule_id = $2`,
		siteID, ruleID)
	rule, err := scanRule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("rule not found: rule_id=%s", ruleID)
		}
		return nil, err
	}
	return rule, nil
}

func (r *PostgresRulesRepo) CreateRule(ctx context.Context, siteID string, rule *domain.Rule) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if rule == nil || rule.RuleName == "" {
		return "", fmt.Errorf("rule_name is required")
	}
	if !domain.ValidTriggerType(rule.TriggerType) {
		return "", fmt.Errorf("invalid trigger_type: %s", rule.TriggerType)
	}

	var ruleID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO rules (site_id, rule_name, enabled, trigger_type, trigger_config, action)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING rule_id::text`,
		siteID,
		rule.RuleName,
		rule.Enabled,
		rule.TriggerType,
		rule.TriggerConfig,
		rule.Action,
	).Scan(&ruleID)
	if err != nil {
		return "", err
	}
	return ruleID, nil
}

func (r *PostgresRulesRepo) UpdateRule(ctx context.Context, siteID, ruleID string, rule *domain.Rule) error {
	if siteID == "" || ruleID == "" {
		return fmt.Errorf("site_id and rule_id are required")
	}
	if rule == nil {
		return fmt.Errorf("rule is required")
	}
	if rule.TriggerType != "" && !domain.ValidTriggerType(rule.TriggerType) {
		return fmt.Errorf("invalid trigger_type: %s", rule.TriggerType)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE rules
		 SET rule_name = $3,
		     enabled = $4,
		     trigger_type = $5,
		     trigger_config = $6,
		     action = $7,
		     updated_at = now()
		 WHERE site_id = $1 AND rule_id = $2`,
		siteID,
		ruleID,
		rule.RuleName,
		rule.Enabled,
		rule.TriggerType,
		rule.TriggerConfig,
		rule.Action,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("rule not found: rule_id=%s", ruleID)
	}
	return nil
}

func (r *PostgresRulesRepo) DeleteRule(ctx context.Context, siteID, ruleID string) error {
	if siteID == "" || ruleID == "" {
		return fmt.Errorf("site_id and rule_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rules WHERE site_id = $1 AND rule_id = $2`,
		siteID, ruleID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("rule not found: rule_id=%s", ruleID)
	}
	return nil
}
