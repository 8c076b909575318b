package httpapi

import (
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// PersonHandler 人员 CRUD
type PersonHandler struct {
	svc service.PersonService
}

func NewPersonHandler(svc service.PersonService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

type personPayload struct {
	PersonName string `json:"person_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

func (p *personPayload) toDomain() *domain.Person {
	return &domain.Person{
		PersonName: p.PersonName,
		Email:      toNullString(p.Email),
		Phone:      toNullString(p.Phone),
		Role:       p.Role,
		Status:     p.Status,
	}
}

func (h *PersonHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/people":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/people/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/people/")
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

func (h *PersonHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	q := r.URL.Query()
	resp, err := h.svc.ListPeople(r.Context(), service.ListPeopleRequest{
		SiteID: sid,
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   parseInt(q.Get("page"), 1),
		Size:   parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]any, 0, len(resp.Items))
	for _, p := range resp.Items {
		items = append(items, p.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": resp.Total}))
}

func (h *PersonHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	p, err := h.svc.GetPerson(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(p.ToJSON()))
}

func (h *PersonHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p personPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreatePerson(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"person_id": id}))
}

func (h *PersonHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p personPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdatePerson(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *PersonHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeletePerson(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
