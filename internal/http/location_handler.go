package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// LocationHandler 位置树 CRUD + 嵌套树视图 + floor plan 上传
type LocationHandler struct {
	svc     service.LocationService
	storage *service.StorageClient // 可选，未配置时 floor plan 上传不可用
}

func NewLocationHandler(svc service.LocationService, storage *service.StorageClient) *LocationHandler {
	return &LocationHandler{svc: svc, storage: storage}
}

type locationPayload struct {
	LocationName string `json:"location_name"`
	LocationType string `json:"location_type"`
	ParentID     string `json:"parent_id"`
	FloorPlanKey string `json:"floor_plan_key"`
}

func (p *locationPayload) toDomain() *domain.Location {
	return &domain.Location{
		LocationName: p.LocationName,
		LocationType: p.LocationType,
		ParentID:     toNullString(p.ParentID),
		FloorPlanKey: toNullString(p.FloorPlanKey),
	}
}

func (h *LocationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/locations":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case r.URL.Path == "/admin/api/v1/locations/tree":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.tree(w, r, sid)

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/locations/"):
		rest := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/locations/")
		parts := strings.Split(rest, "/")
		id := parts[0]
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case len(parts) == 1:
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
		case len(parts) == 2 && parts[1] == "floor-plan":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.uploadFloorPlan(w, r, sid, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *LocationHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	items, err := h.svc.ListLocations(r.Context(), sid, r.URL.Query().Get("parent_id"))
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out := make([]any, 0, len(items))
	for _, l := range items {
		out = append(out, l.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": out, "total": len(out)}))
}

func (h *LocationHandler) tree(w http.ResponseWriter, r *http.Request, sid string) {
	nodes, err := h.svc.GetLocationTree(r.Context(), sid)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tree": nodes}))
}

func (h *LocationHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	l, err := h.svc.GetLocation(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(l.ToJSON()))
}

func (h *LocationHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p locationPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateLocation(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"location_id": id}))
}

func (h *LocationHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p locationPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateLocation(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

// uploadFloorPlan POST /admin/api/v1/locations/{id}/floor-plan
// 图片进对象存储，location 只存 key
func (h *LocationHandler) uploadFloorPlan(w http.ResponseWriter, r *http.Request, sid, id string) {
	if h.storage == nil {
		writeJSON(w, http.StatusOK, Fail("storage is not configured"))
		return
	}

	loc, err := h.svc.GetLocation(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil { // 20MB max
		writeJSON(w, http.StatusOK, Fail("failed to parse form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("file not found in request"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to read file"))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("floorplans/%s/%s%s", sid, id, path.Ext(header.Filename))
	if err := h.storage.PutObject(key, contentType, data); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	loc.FloorPlanKey = toNullString(key)
	if err := h.svc.UpdateLocation(r.Context(), sid, id, loc); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"floor_plan_key": key,
		"floor_plan_url": h.storage.ObjectURL(key),
	}))
}

func (h *LocationHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	// 子树由级联删除带走
	if err := h.svc.DeleteLocation(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
