package httpapi

import (
	"net/http"

	"luxgrid-data/internal/service"

	"go.uber.org/zap"
)

// SystemHandler 管理端点：schema 迁移、对象存储初始化、健康检查
type SystemHandler struct {
	migrate *service.MigrateService
	storage *service.StorageClient
	logger  *zap.Logger
}

func NewSystemHandler(migrate *service.MigrateService, storage *service.StorageClient, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{migrate: migrate, storage: storage, logger: logger}
}

// Migrate POST /admin/api/v1/system/migrate
// 应用所有未执行的迁移，重复调用幂等
func (h *SystemHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.migrate == nil {
		writeJSON(w, http.StatusOK, Fail("migrations are not configured"))
		return
	}

	res, err := h.migrate.Run(r.Context())
	if err != nil {
		h.logger.Error("migration run failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// StorageSetup POST /admin/api/v1/system/storage/setup
// 创建 floor plan bucket，已存在视为成功
func (h *SystemHandler) StorageSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.storage == nil {
		writeJSON(w, http.StatusOK, Fail("storage is not configured"))
		return
	}

	if err := h.storage.EnsureBucket(); err != nil {
		h.logger.Error("storage setup failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"bucket": h.storage.Bucket()}))
}

// Healthz 健康检查（不走 Result 包装，方便负载均衡探活）
func (h *SystemHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
