package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// RuleHandler 规则 CRUD + 模拟评估端点
type RuleHandler struct {
	svc service.RuleService
}

func NewRuleHandler(svc service.RuleService) *RuleHandler {
	return &RuleHandler{svc: svc}
}

type rulePayload struct {
	RuleName      string          `json:"rule_name"`
	Enabled       *bool           `json:"enabled"`
	TriggerType   string          `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	Action        json.RawMessage `json:"action"`
}

func (p *rulePayload) toDomain() *domain.Rule {
	r := &domain.Rule{
		RuleName:    p.RuleName,
		Enabled:     true, // 缺省启用
		TriggerType: p.TriggerType,
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	if len(p.TriggerConfig) > 0 && string(p.TriggerConfig) != "null" {
		r.TriggerConfig = toNullString(string(p.TriggerConfig))
	}
	if len(p.Action) > 0 && string(p.Action) != "null" {
		r.Action = toNullString(string(p.Action))
	}
	return r
}

func (h *RuleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/rules":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/rules/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/rules/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, sid, id)
		case http.MethodPut:
			h.update(w, r, sid, id)
		case http.MethodDelete:
			h.delete(w, r, sid, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *RuleHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	enabledOnly := r.URL.Query().Get("enabled") == "true"
	items, err := h.svc.ListRules(r.Context(), sid, enabledOnly)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out := make([]any, 0, len(items))
	for _, rl := range items {
		out = append(out, rl.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": out, "total": len(out)}))
}

func (h *RuleHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	rl, err := h.svc.GetRule(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(rl.ToJSON()))
}

func (h *RuleHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p rulePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateRule(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"rule_id": id}))
}

func (h *RuleHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p rulePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateRule(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *RuleHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeleteRule(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// Simulate POST /data/api/v1/rules/simulate
// 入参：site_id + 模拟事件；出参：逐条评估结果 + 命中规则的动作列表
func (h *RuleHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req service.SimulateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if req.SiteID == "" {
		req.SiteID = siteID(r)
	}

	resp, err := h.svc.Simulate(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
