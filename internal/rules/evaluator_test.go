package rules

import (
	"database/sql"
	"strings"
	"testing"

	"luxgrid-data/internal/domain"

	"go.uber.org/zap"
)

func rule(triggerType, triggerConfig string, enabled bool) *domain.Rule {
	r := &domain.Rule{
		RuleID:      "rule-1",
		SiteID:      "site-1",
		RuleName:    "test rule",
		Enabled:     enabled,
		TriggerType: triggerType,
	}
	if triggerConfig != "" {
		r.TriggerConfig = sql.NullString{String: triggerConfig, Valid: true}
	}
	return r
}

func TestEvaluate_DisabledRule(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	out := e.Evaluate(rule(domain.TriggerTypeMotion, `{"zone_id":"z1"}`, false),
		Event{EventType: "motion", ZoneID: "z1"})

	if out.Matched {
		t.Fatalf("disabled rule must not match")
	}
	if out.Reason != "rule is disabled" {
		t.Fatalf("unexpected reason: %q", out.Reason)
	}
}

func TestEvaluate_TriggerTypeMismatch(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	out := e.Evaluate(rule(domain.TriggerTypeDaylight, `{"op":"lt","threshold_lux":300}`, true),
		Event{EventType: "motion", ZoneID: "z1"})

	if out.Matched {
		t.Fatalf("mismatched trigger type must not match")
	}
	if !strings.Contains(out.Reason, `"daylight"`) || !strings.Contains(out.Reason, `"motion"`) {
		t.Fatalf("reason should name both types, got: %q", out.Reason)
	}
}

func TestEvaluate_Motion(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	tests := []struct {
		name    string
		config  string
		event   Event
		matched bool
		reason  string
	}{
		{
			name:    "zone matches",
			config:  `{"zone_id":"entrance"}`,
			event:   Event{EventType: "motion", ZoneID: "entrance"},
			matched: true,
			reason:  `motion in zone "entrance" matches rule zone`,
		},
		{
			name:    "zone differs",
			config:  `{"zone_id":"entrance"}`,
			event:   Event{EventType: "motion", ZoneID: "backroom"},
			matched: false,
			reason:  `motion in zone "backroom" does not match rule zone "entrance"`,
		},
		{
			name:    "rule has no zone",
			config:  `{}`,
			event:   Event{EventType: "motion", ZoneID: "entrance"},
			matched: false,
			reason:  "rule has no zone_id configured",
		},
		{
			name:    "missing trigger config defaults to no zone",
			config:  "",
			event:   Event{EventType: "motion", ZoneID: "entrance"},
			matched: false,
			reason:  "rule has no zone_id configured",
		},
		{
			name:    "event has no zone",
			config:  `{"zone_id":"entrance"}`,
			event:   Event{EventType: "motion"},
			matched: false,
			reason:  `event has no zone, rule targets zone "entrance"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Evaluate(rule(domain.TriggerTypeMotion, tt.config, true), tt.event)
			if out.Matched != tt.matched {
				t.Fatalf("matched=%v, want %v (reason: %q)", out.Matched, tt.matched, out.Reason)
			}
			if out.Reason != tt.reason {
				t.Fatalf("reason=%q, want %q", out.Reason, tt.reason)
			}
		})
	}
}

func TestEvaluate_Daylight(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	tests := []struct {
		name    string
		config  string
		lux     float64
		matched bool
	}{
		{"lt below threshold", `{"op":"lt","threshold_lux":300}`, 120, true},
		{"lt at threshold", `{"op":"lt","threshold_lux":300}`, 300, false},
		{"lte at threshold", `{"op":"lte","threshold_lux":300}`, 300, true},
		{"gt above threshold", `{"op":"gt","threshold_lux":300}`, 450, true},
		{"gt at threshold", `{"op":"gt","threshold_lux":300}`, 300, false},
		{"gte at threshold", `{"op":"gte","threshold_lux":300}`, 300, true},
		{"gte below threshold", `{"op":"gte","threshold_lux":300}`, 299.5, false},
		// op 缺失默认 lt
		{"missing op defaults to lt", `{"threshold_lux":300}`, 120, true},
		// threshold 缺失默认 0
		{"missing threshold defaults to zero", `{"op":"gt"}`, 10, true},
		{"empty config never below zero", `{}`, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Evaluate(rule(domain.TriggerTypeDaylight, tt.config, true),
				Event{EventType: "daylight", Lux: tt.lux})
			if out.Matched != tt.matched {
				t.Fatalf("matched=%v, want %v (reason: %q)", out.Matched, tt.matched, out.Reason)
			}
			if out.Reason == "" {
				t.Fatalf("reason must not be empty")
			}
		})
	}
}

func TestEvaluate_Daylight_UnknownOp(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	out := e.Evaluate(rule(domain.TriggerTypeDaylight, `{"op":"between","threshold_lux":300}`, true),
		Event{EventType: "daylight", Lux: 100})
	if out.Matched {
		t.Fatalf("unknown op must not match")
	}
	if !strings.Contains(out.Reason, `unknown comparison op "between"`) {
		t.Fatalf("unexpected reason: %q", out.Reason)
	}
}

func TestEvaluate_Daylight_ReasonEmbedsValues(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	out := e.Evaluate(rule(domain.TriggerTypeDaylight, `{"op":"lt","threshold_lux":300}`, true),
		Event{EventType: "daylight", Lux: 120})
	if out.Reason != "measured lux 120 < threshold 300" {
		t.Fatalf("unexpected reason: %q", out.Reason)
	}

	out = e.Evaluate(rule(domain.TriggerTypeDaylight, `{"op":"gte","threshold_lux":300}`, true),
		Event{EventType: "daylight", Lux: 120})
	if out.Reason != "measured lux 120 is not >= threshold 300" {
		t.Fatalf("unexpected reason: %q", out.Reason)
	}
}

func TestEvaluate_Schedule(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	tests := []struct {
		name    string
		config  string
		clock   string
		matched bool
		reason  string
	}{
		{
			name:    "time matches",
			config:  `{"at":"18:30"}`,
			clock:   "18:30",
			matched: true,
			reason:  `clock "18:30" matches schedule time`,
		},
		{
			name:    "time differs",
			config:  `{"at":"18:30"}`,
			clock:   "18:31",
			matched: false,
			reason:  `clock "18:31" does not match schedule time "18:30"`,
		},
		{
			name:    "rule has no time",
			config:  `{}`,
			clock:   "18:30",
			matched: false,
			reason:  "rule has no schedule time configured",
		},
		{
			name:    "event has no clock",
			config:  `{"at":"18:30"}`,
			clock:   "",
			matched: false,
			reason:  `event has no clock, rule fires at "18:30"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Evaluate(rule(domain.TriggerTypeSchedule, tt.config, true),
				Event{EventType: "schedule", Clock: tt.clock})
			if out.Matched != tt.matched {
				t.Fatalf("matched=%v, want %v (reason: %q)", out.Matched, tt.matched, out.Reason)
			}
			if out.Reason != tt.reason {
				t.Fatalf("reason=%q, want %q", out.Reason, tt.reason)
			}
		})
	}
}

func TestEvaluateAll_CollectsMatchedActions(t *testing.T) {
	e := NewEvaluator(zap.NewNop())

	r1 := rule(domain.TriggerTypeMotion, `{"zone_id":"entrance"}`, true)
	r1.RuleID = "r1"
	r1.Action = sql.NullString{String: `{"command":"set_level","level":80,"target_zone_id":"entrance"}`, Valid: true}

	r2 := rule(domain.TriggerTypeMotion, `{"zone_id":"backroom"}`, true)
	r2.RuleID = "r2"

	r3 := rule(domain.TriggerTypeDaylight, `{"op":"lt","threshold_lux":300}`, true)
	r3.RuleID = "r3"

	outcomes, actions := e.EvaluateAll([]*domain.Rule{r1, r2, r3},
		Event{EventType: "motion", ZoneID: "entrance"})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Matched || outcomes[1].Matched || outcomes[2].Matched {
		t.Fatalf("expected only r1 to match: %+v", outcomes)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Command != "set_level" || actions[0].Level == nil || *actions[0].Level != 80 {
		t.Fatalf("unexpected action: %+v", actions[0])
	}
}
