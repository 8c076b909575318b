package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/service"
)

// DeviceHandler 设备 + 组件 CRUD，含 Excel 导入导出
type DeviceHandler struct {
	svc service.DeviceService
}

func NewDeviceHandler(svc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

type devicePayload struct {
	DeviceName      string          `json:"device_name"`
	DeviceType      string          `json:"device_type"`
	SerialNumber    string          `json:"serial_number"`
	LocationID      string          `json:"location_id"`
	ZoneID          string          `json:"zone_id"`
	Status          string          `json:"status"`
	FirmwareVersion string          `json:"firmware_version"`
	Metadata        json.RawMessage `json:"metadata"`
}

func (p *devicePayload) toDomain() *domain.Device {
	d := &domain.Device{
		DeviceName:      p.DeviceName,
		DeviceType:      p.DeviceType,
		SerialNumber:    toNullString(p.SerialNumber),
		LocationID:      toNullString(p.LocationID),
		ZoneID:          toNullString(p.ZoneID),
		Status:          p.Status,
		FirmwareVersion: toNullString(p.FirmwareVersion),
	}
	if len(p.Metadata) > 0 && string(p.Metadata) != "null" {
		d.Metadata = toNullString(string(p.Metadata))
	}
	return d
}

type componentPayload struct {
	ComponentKind   string `json:"component_kind"`
	Model           string `json:"model"`
	FirmwareVersion string `json:"firmware_version"`
	Status          string `json:"status"`
}

func (p *componentPayload) toDomain() *domain.Component {
	return &domain.Component{
		ComponentKind:   p.ComponentKind,
		Model:           toNullString(p.Model),
		FirmwareVersion: toNullString(p.FirmwareVersion),
		Status:          p.Status,
	}
}

func (h *DeviceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := siteID(r)

	switch {
	case r.URL.Path == "/admin/api/v1/devices":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, sid)
		case http.MethodPost:
			h.create(w, r, sid)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case r.URL.Path == "/admin/api/v1/devices/export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.export(w, r, sid)

	case r.URL.Path == "/admin/api/v1/devices/import-template":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.importTemplate(w, r)

	case r.URL.Path == "/admin/api/v1/devices/import":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.importDevices(w, r, sid)

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/devices/"):
		rest := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/devices/")
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
		case len(parts) == 2 && parts[1] == "components":
			switch r.Method {
			case http.MethodGet:
				h.listComponents(w, r, sid, id)
			case http.MethodPost:
				h.createComponent(w, r, sid, id)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}

	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/components/"):
		id := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/components/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.updateComponent(w, r, sid, id)
		case http.MethodDelete:
			h.deleteComponent(w, r, sid, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func listRequestFromQuery(r *http.Request, sid string) service.ListDevicesRequest {
	q := r.URL.Query()
	req := service.ListDevicesRequest{
		SiteID:        sid,
		DeviceType:    q.Get("device_type"),
		ZoneID:        q.Get("zone_id"),
		LocationID:    q.Get("location_id"),
		SearchKeyword: q.Get("search"),
		Page:          parseInt(q.Get("page"), 1),
		Size:          parseInt(q.Get("size"), 20),
	}
	if st := q.Get("status"); st != "" {
		req.Status = []string{st}
	}
	return req
}

func (h *DeviceHandler) list(w http.ResponseWriter, r *http.Request, sid string) {
	resp, err := h.svc.ListDevices(r.Context(), listRequestFromQuery(r, sid))
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]any, 0, len(resp.Items))
	for _, d := range resp.Items {
		items = append(items, d.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": resp.Total}))
}

func (h *DeviceHandler) get(w http.ResponseWriter, r *http.Request, sid, id string) {
	d, err := h.svc.GetDevice(r.Context(), sid, id)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(d.ToJSON()))
}

func (h *DeviceHandler) create(w http.ResponseWriter, r *http.Request, sid string) {
	var p devicePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateDevice(r.Context(), sid, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"device_id": id}))
}

func (h *DeviceHandler) update(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p devicePayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateDevice(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *DeviceHandler) delete(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeleteDevice(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ---- Excel 导入导出 ----

func (h *DeviceHandler) export(w http.ResponseWriter, r *http.Request, sid string) {
	req := listRequestFromQuery(r, sid)
	req.Page = 1
	req.Size = 10000 // 导出不分页
	resp, err := h.svc.ListDevices(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	rows := make([]map[string]any, 0, len(resp.Items))
	for _, d := range resp.Items {
		rows = append(rows, d.ToJSON())
	}
	data, err := GenerateDeviceExport(rows)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to generate export"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=devices-export.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *DeviceHandler) importTemplate(w http.ResponseWriter, _ *http.Request) {
	data, err := GenerateDeviceImportTemplate()
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to generate template"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=devices-import-template.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *DeviceHandler) importDevices(w http.ResponseWriter, r *http.Request, sid string) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		writeJSON(w, http.StatusOK, Fail("failed to parse form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("file not found in request"))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to read file"))
		return
	}

	devices, err := ParseDeviceImport(fileBytes)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	res, err := h.svc.ImportDevices(r.Context(), sid, devices)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// ---- components ----

func (h *DeviceHandler) listComponents(w http.ResponseWriter, r *http.Request, sid, deviceID string) {
	items, err := h.svc.ListComponents(r.Context(), sid, deviceID)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out := make([]any, 0, len(items))
	for _, c := range items {
		out = append(out, c.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": out, "total": len(out)}))
}

func (h *DeviceHandler) createComponent(w http.ResponseWriter, r *http.Request, sid, deviceID string) {
	var p componentPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	id, err := h.svc.CreateComponent(r.Context(), sid, deviceID, p.toDomain())
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"component_id": id}))
}

func (h *DeviceHandler) updateComponent(w http.ResponseWriter, r *http.Request, sid, id string) {
	var p componentPayload
	if err := readBodyJSON(r, 1<<20, &p); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if err := h.svc.UpdateComponent(r.Context(), sid, id, p.toDomain()); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

func (h *DeviceHandler) deleteComponent(w http.ResponseWriter, r *http.Request, sid, id string) {
	if err := h.svc.DeleteComponent(r.Context(), sid, id); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
