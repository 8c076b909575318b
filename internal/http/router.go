package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 pprof 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAdminSiteRoutes 站点管理
func (r *Router) RegisterAdminSiteRoutes(h *SiteHandler) {
	r.Handle("/admin/api/v1/sites", h.ServeHTTP)
	r.Handle("/admin/api/v1/sites/", h.ServeHTTP)
}

// RegisterAdminLocationRoutes 位置树管理（building/floor/room/area）
func (r *Router) RegisterAdminLocationRoutes(h *LocationHandler) {
	r.Handle("/admin/api/v1/locations", h.ServeHTTP)
	r.Handle("/admin/api/v1/locations/", h.ServeHTTP)
	r.Handle("/admin/api/v1/locations/tree", h.ServeHTTP)
}

// RegisterAdminZoneRoutes 区域管理（楼层平面图多边形）
func (r *Router) RegisterAdminZoneRoutes(h *ZoneHandler) {
	r.Handle("/admin/api/v1/zones", h.ServeHTTP)
	r.Handle("/admin/api/v1/zones/", h.ServeHTTP)
}

// RegisterAdminDeviceRoutes 设备 + 组件管理，含 Excel 导入导出
func (r *Router) RegisterAdminDeviceRoutes(h *DeviceHandler) {
	r.Handle("/admin/api/v1/devices", h.ServeHTTP)
	r.Handle("/admin/api/v1/devices/", h.ServeHTTP)
	r.Handle("/admin/api/v1/components/", h.ServeHTTP)
}

// RegisterAdminPersonRoutes 人员管理
func (r *Router) RegisterAdminPersonRoutes(h *PersonHandler) {
	r.Handle("/admin/api/v1/people", h.ServeHTTP)
	r.Handle("/admin/api/v1/people/", h.ServeHTTP)
}

// RegisterAdminGroupRoutes 分组管理
func (r *Router) RegisterAdminGroupRoutes(h *GroupHandler) {
	r.Handle("/admin/api/v1/groups", h.ServeHTTP)
	r.Handle("/admin/api/v1/groups/", h.ServeHTTP)
}

// RegisterRuleRoutes 规则管理 + 模拟评估
func (r *Router) RegisterRuleRoutes(h *RuleHandler) {
	r.Handle("/admin/api/v1/rules", h.ServeHTTP)
	r.Handle("/admin/api/v1/rules/", h.ServeHTTP)
	r.Handle("/data/api/v1/rules/simulate", h.Simulate)
}

// RegisterRuntimeRoutes 设备运行时数据（redis 缓存读取）
func (r *Router) RegisterRuntimeRoutes(h *RuntimeHandler) {
	r.Handle("/data/api/v1/devices/", h.ServeHTTP)
}

// RegisterSystemRoutes 管理端点：schema 迁移、存储初始化、健康检查
func (r *Router) RegisterSystemRoutes(h *SystemHandler) {
	r.Handle("/admin/api/v1/system/migrate", h.Migrate)
	r.Handle("/admin/api/v1/system/storage/setup", h.StorageSetup)
	r.Handle("/healthz", h.Healthz)
}
