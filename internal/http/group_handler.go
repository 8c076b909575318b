package httpapi

import (
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// GroupHandler 分组 CRUD（成员以 person_ids / device_ids 数组整体提交）
type GroupHandler struct {
	svc service.GroupService
}

func NewGroupHandler(svc service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type groupPayload struct {
	GroupName   string   `json:"group_name"`
	Description string   `json:"description"`
	PersonIDs   []string `json:"person_ids"`
	DeviceIDs   []string `json:"device_ids"`
}

func (p *groupPayload) toDomain() *domain.Group {
	return &domain.Group{
		GroupName:   p.GroupName,
		Description: toNullString(p.Description),
		PersonIDs:   p.PersonIDs,
		DeviceIDs:   p.DeviceIDs,
	}
}

func (h *GroupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/groups":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/groups/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/groups/")
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

func (h *GroupHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	items, err := h.svc.ListGroups(r.Context(), sid)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out := make([]any, 0, len(items))
	for _, g := range items {
		out = append(out, g.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": out, "total": len(out)}))
}

func (h *GroupHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	g, err := h.svc.GetGroup(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(g.ToJSON()))
}

func (h *GroupHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p groupPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateGroup(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"group_id": id}))
}

func (h *GroupHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p groupPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateGroup(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *GroupHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeleteGroup(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
