package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"luxgrid-data/internal/service"
	"luxgrid-data/internal/store"
)

// RuntimeHandler 设备运行时数据读取
// GET /data/api/v1/devices/{id}/runtime
// 运行时数据由遥测接入写进 redis（runtime:device:<id>），这里只读缓存
type RuntimeHandler struct {
	kv        store.KV
	deviceSvc service.DeviceService
}

func NewRuntimeHandler(kv store.KV, deviceSvc service.DeviceService) *RuntimeHandler {
	return &RuntimeHandler{kv: kv, deviceSvc: deviceSvc}
}

func (h *RuntimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/data/api/v1/devices/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "runtime" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	deviceID := parts[0]

	// 校验设备属于该站点
	sid := siteID(r)
	if _, err := h.deviceSvc.GetDevice(r.Context(), sid, deviceID); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	raw, err := h.kv.Get(r.Context(), store.RuntimeKey(deviceID))
	if err != nil {
		if err == store.ErrMiss {
			writeJSON(w, http.StatusOK, Ok(map[string]any{
				"device_id": deviceID,
				"runtime":   nil,
			}))
			return
		}
		writeJSON(w, http.StatusOK, Fail("failed to read runtime cache"))
		return
	}

	var runtime any
	if err := json.Unmarshal([]byte(raw), &runtime); err != nil {
		runtime = raw
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"device_id": deviceID,
		"runtime":   runtime,
	}))
}
