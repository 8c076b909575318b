package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// SiteHandler 站点 CRUD
// 站点是顶层实体，list/create 不要求 site_id query 参数
type SiteHandler struct {
	svc service.SiteService
}

func NewSiteHandler(svc service.SiteService) *SiteHandler {
	return &SiteHandler{svc: svc}
}

type sitePayload struct {
	SiteName string          `json:"site_name"`
	Address  string          `json:"address"`
	City     string          `json:"city"`
	Timezone string          `json:"timezone"`
	Status   string          `json:"status"`
	Metadata json.RawMessage `json:"metadata"`
}

func (p *sitePayload) toDomain() *domain.Site {
	s := &domain.Site{
		SiteName: p.SiteName,
		Address:  toNullString(p.Address),
		City:     toNullString(p.City),
		Timezone: p.Timezone,
		Status:   p.Status,
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	if s.Status == "" {
		s.Status = domain.SiteStatusActive
	}
	if len(p.Metadata) > 0 && string(p.Metadata) != "null" {
		s.Metadata = toNullString(string(p.Metadata))
	}
	return s
}

func (h *SiteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/admin/api/v1/sites":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/sites/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/sites/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *SiteHandler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListSites(r.Context(), service.ListSitesRequest{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   parseInt(r.URL.Query().Get("page"), 1),
		Size:   parseInt(r.URL.Query().Get("size"), 20),
	})
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]any, 0, len(resp.Items))
	for _, s := range resp.Items {
		items = append(items, s.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": resp.Total}))
}

func (h *SiteHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.svc.GetSite(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(s.ToJSON()))
}

func (h *SiteHandler) create(w http.ResponseWriter, r *http.Request) {
	var p sitePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateSite(r.Context(), p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"site_id": id}))
}

func (h *SiteHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var p sitePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateSite(r.Context(), id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *SiteHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteSite(r.Context(), id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
