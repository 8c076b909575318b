package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// ZoneHandler 区域 CRUD（floor plan 多边形）
type ZoneHandler struct {
	svc service.ZoneService
}

func NewZoneHandler(svc service.ZoneService) *ZoneHandler {
	return &ZoneHandler{svc: svc}
}

type zonePayload struct {
	ZoneName   string          `json:"zone_name"`
	LocationID string          `json:"location_id"`
	Polygon    json.RawMessage `json:"polygon"`
	Color      string          `json:"color"`
}

func (p *zonePayload) toDomain() *domain.Zone {
	z := &domain.Zone{
		ZoneName:   p.ZoneName,
		LocationID: p.LocationID,
		Color:      toNullString(p.Color),
	}
	if len(p.Polygon) > 0 && string(p.Polygon) != "null" {
		z.Polygon = toNullString(string(p.Polygon))
	}
	return z
}

func (h *ZoneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/zones":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/zones/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/zones/")
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

func (h *ZoneHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	items, err := h.svc.ListZones(r.Context(), sid, r.URL.Query().Get("location_id"))
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out := make([]any, 0, len(items))
	for _, z := range items {
		out = append(out, z.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": out, "total": len(out)}))
}

func (h *ZoneHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	z, err := h.svc.GetZone(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(z.ToJSON()))
}

func (h *ZoneHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p zonePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateZone(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"zone_id": id}))
}

func (h *ZoneHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p zonePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateZone(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *ZoneHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeleteZone(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
