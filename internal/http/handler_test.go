package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"luxgrid-data/internal/repository"
	"luxgrid-data/internal/rules"
	"luxgrid-data/internal/service"
	"luxgrid-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeKV 内存 KV，测试用
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) ScanKeys(_ context.Context, _ string) ([]string, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

type testEnv struct {
	router *Router
	kv     *fakeKV
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	sitesRepo := repository.NewMemorySitesRepo()
	locationsRepo := repository.NewMemoryLocationsRepo()
	zonesRepo := repository.NewMemoryZonesRepo()
	devicesRepo := repository.NewMemoryDevicesRepo()
	peopleRepo := repository.NewMemoryPeopleRepo()
	groupsRepo := repository.NewMemoryGroupsRepo()
	rulesRepo := repository.NewMemoryRulesRepo()
	kv := newFakeKV()

	deviceSvc := service.NewDeviceService(devicesRepo, logger)

	router := NewRouter(logger)
	router.RegisterAdminSiteRoutes(NewSiteHandler(service.NewSiteService(sitesRepo, logger)))
	router.RegisterAdminLocationRoutes(NewLocationHandler(service.NewLocationService(locationsRepo, logger), nil))
	router.RegisterAdminZoneRoutes(NewZoneHandler(service.NewZoneService(zonesRepo, logger)))
	router.RegisterAdminDeviceRoutes(NewDeviceHandler(deviceSvc))
	router.RegisterAdminPersonRoutes(NewPersonHandler(service.NewPersonService(peopleRepo, logger)))
	router.RegisterAdminGroupRoutes(NewGroupHandler(service.NewGroupService(groupsRepo, peopleRepo, devicesRepo, logger)))
	router.RegisterRuleRoutes(NewRuleHandler(service.NewRuleService(rulesRepo, rules.NewEvaluator(logger), logger)))
	router.RegisterRuntimeRoutes(NewRuntimeHandler(kv, deviceSvc))
	router.RegisterSystemRoutes(NewSystemHandler(nil, nil, logger))

	return &testEnv{router: router, kv: kv}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// resultOf 解析 Result 包装，返回 result 字段
func resultOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Result  map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, ResultSuccess, out.Code, "unexpected error: %s", out.Message)
	return out.Result
}

func TestSiteHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/api/v1/sites",
		`{"site_name":"Downtown Store","city":"Portland"}`)
	require.Equal(t, http.StatusOK, w.Code)
	siteID := resultOf(t, w)["site_id"].(string)
	require.NotEmpty(t, siteID)

	w = env.do(t, http.MethodGet, "/admin/api/v1/sites/"+siteID, "")
	res := resultOf(t, w)
	assert.Equal(t, "Downtown Store", res["site_name"])
	assert.Equal(t, "Portland", res["city"])

	w = env.do(t, http.MethodGet, "/admin/api/v1/sites?search=downtown", "")
	res = resultOf(t, w)
	assert.EqualValues(t, 1, res["total"])

	// 缺 site_name 拒绝
	w = env.do(t, http.MethodPost, "/admin/api/v1/sites", `{"city":"Nowhere"}`)
	assert.Contains(t, w.Body.String(), `"code":-1`)

	w = env.do(t, http.MethodDelete, "/admin/api/v1/sites/"+siteID, "")
	assert.Contains(t, w.Body.String(), `"code":2000`)
}

func TestLocationHandler_Tree(t *testing.T) {
	env := newTestEnv(t)

	mk := func(name, ltype, parentID string) string {
		body := `{"location_name":"` + name + `","location_type":"` + ltype + `"`
		if parentID != "" {
			body += `,"parent_id":"` + parentID + `"`
		}
		body += `}`
		w := env.do(t, http.MethodPost, "/admin/api/v1/locations?site_id=site-1", body)
		return resultOf(t, w)["location_id"].(string)
	}

	floorID := mk("Floor 1", "floor", "")
	roomID := mk("Sales Floor", "room", floorID)
	mk("Checkout Area", "area", roomID)

	w := env.do(t, http.MethodGet, "/admin/api/v1/locations/tree?site_id=site-1", "")
	res := resultOf(t, w)
	tree, ok := res["tree"].([]any)
	require.True(t, ok)
	require.Len(t, tree, 1) // 只有 Floor 1 是根

	root := tree[0].(map[string]any)
	children := root["children"].([]any)
	require.Len(t, children, 1)
	room := children[0].(map[string]any)
	assert.Len(t, room["children"].([]any), 1)

	// 站点隔离
	w = env.do(t, http.MethodGet, "/admin/api/v1/locations/tree?site_id=site-2", "")
	res = resultOf(t, w)
	assert.Empty(t, res["tree"])

	// 存储未配置时 floor plan 上传返回业务错误
	w = env.do(t, http.MethodPost, "/admin/api/v1/locations/"+floorID+"/floor-plan?site_id=site-1", "")
	assert.Contains(t, w.Body.String(), "storage is not configured")
}

func TestZoneHandler_PolygonValidation(t *testing.T) {
	env := newTestEnv(t)

	// 合法多边形
	w := env.do(t, http.MethodPost, "/admin/api/v1/zones?site_id=site-1",
		`{"zone_name":"Entrance","location_id":"loc-1","polygon":[{"x":0,"y":0},{"x":1,"y":0},{"x":0.5,"y":1}],"color":"#ffcc00"}`)
	zoneID := resultOf(t, w)["zone_id"].(string)

	w = env.do(t, http.MethodGet, "/admin/api/v1/zones/"+zoneID+"?site_id=site-1", "")
	res := resultOf(t, w)
	pts := res["polygon"].([]any)
	assert.Len(t, pts, 3)

	// 两个点不够
	w = env.do(t, http.MethodPost, "/admin/api/v1/zones?site_id=site-1",
		`{"zone_name":"Bad","location_id":"loc-1","polygon":[{"x":0,"y":0},{"x":1,"y":1}]}`)
	assert.Contains(t, w.Body.String(), "at least 3 points")
}

func TestDeviceHandler_CRUDAndComponents(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/api/v1/devices?site_id=site-1",
		`{"device_name":"Lobby Light","device_type":"luminaire","serial_number":"SN-1001"}`)
	deviceID := resultOf(t, w)["device_id"].(string)

	// 非法类型
	w = env.do(t, http.MethodPost, "/admin/api/v1/devices?site_id=site-1",
		`{"device_name":"Bad","device_type":"teapot"}`)
	assert.Contains(t, w.Body.String(), "invalid device_type")

	w = env.do(t, http.MethodGet, "/admin/api/v1/devices?site_id=site-1&search=lobby", "")
	res := resultOf(t, w)
	assert.EqualValues(t, 1, res["total"])

	// 组件
	w = env.do(t, http.MethodPost, "/admin/api/v1/devices/"+deviceID+"/components?site_id=site-1",
		`{"component_kind":"driver","model":"LED-DRV-40W"}`)
	compID := resultOf(t, w)["component_id"].(string)

	w = env.do(t, http.MethodGet, "/admin/api/v1/devices/"+deviceID+"/components?site_id=site-1", "")
	res = resultOf(t, w)
	assert.EqualValues(t, 1, res["total"])

	w = env.do(t, http.MethodDelete, "/admin/api/v1/components/"+compID+"?site_id=site-1", "")
	assert.Contains(t, w.Body.String(), `"code":2000`)
}

func TestDeviceHandler_ExportAndTemplate(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/admin/api/v1/devices?site_id=site-1",
		`{"device_name":"Export Me","device_type":"gateway"}`)

	w := env.do(t, http.MethodGet, "/admin/api/v1/devices/export?site_id=site-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "devices-export.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w = env.do(t, http.MethodGet, "/admin/api/v1/devices/import-template", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "devices-import-template.xlsx")
}

func TestRuleHandler_SimulateFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/api/v1/rules?site_id=site-1",
		`{"rule_name":"Evening dim","trigger_type":"daylight","trigger_config":{"op":"lt","threshold_lux":300},"action":{"command":"set_level","level":80}}`)
	resultOf(t, w)

	w = env.do(t, http.MethodPost, "/admin/api/v1/rules?site_id=site-1",
		`{"rule_name":"Disabled rule","enabled":false,"trigger_type":"daylight","trigger_config":{"op":"lt","threshold_lux":300}}`)
	resultOf(t, w)

	w = env.do(t, http.MethodPost, "/data/api/v1/rules/simulate",
		`{"site_id":"site-1","event":{"event_type":"daylight","lux":120}}`)
	res := resultOf(t, w)

	outcomes := res["outcomes"].([]any)
	require.Len(t, outcomes, 1) // 禁用规则不参与评估
	first := outcomes[0].(map[string]any)
	assert.Equal(t, true, first["matched"])
	assert.Contains(t, first["reason"].(string), "measured lux 120")

	actions := res["actions"].([]any)
	require.Len(t, actions, 1)
	assert.Equal(t, "set_level", actions[0].(map[string]any)["command"])

	// 非法 event_type
	w = env.do(t, http.MethodPost, "/data/api/v1/rules/simulate",
		`{"site_id":"site-1","event":{"event_type":"earthquake"}}`)
	assert.Contains(t, w.Body.String(), "invalid event_type")
}

func TestRuntimeHandler_CacheHitAndMiss(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/api/v1/devices?site_id=site-1",
		`{"device_name":"Sensor A","device_type":"daylight_sensor"}`)
	deviceID := resultOf(t, w)["device_id"].(string)

	// 缓存未命中：runtime 为 null
	w = env.do(t, http.MethodGet, "/data/api/v1/devices/"+deviceID+"/runtime?site_id=site-1", "")
	res := resultOf(t, w)
	assert.Nil(t, res["runtime"])

	// 写缓存后命中
	require.NoError(t, env.kv.Set(context.Background(), store.RuntimeKey(deviceID),
		`{"event_type":"daylight","lux":450}`, 0))
	w = env.do(t, http.MethodGet, "/data/api/v1/devices/"+deviceID+"/runtime?site_id=site-1", "")
	res = resultOf(t, w)
	runtime := res["runtime"].(map[string]any)
	assert.EqualValues(t, 450, runtime["lux"])

	// 其他站点拿不到
	w = env.do(t, http.MethodGet, "/data/api/v1/devices/"+deviceID+"/runtime?site_id=site-2", "")
	assert.Contains(t, w.Body.String(), `"code":-1`)
}

func TestGroupHandler_MemberValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/admin/api/v1/people?site_id=site-1",
		`{"person_name":"Alex Kim","role":"manager"}`)
	personID := resultOf(t, w)["person_id"].(string)

	w = env.do(t, http.MethodPost, "/admin/api/v1/groups?site_id=site-1",
		`{"group_name":"Managers","person_ids":["`+personID+`"]}`)
	groupID := resultOf(t, w)["group_id"].(string)

	w = env.do(t, http.MethodGet, "/admin/api/v1/groups/"+groupID+"?site_id=site-1", "")
	res := resultOf(t, w)
	assert.Equal(t, []any{personID}, res["person_ids"])
	assert.Equal(t, []any{}, res["device_ids"])

	w = env.do(t, http.MethodPost, "/admin/api/v1/groups?site_id=site-1",
		`{"group_name":"Bad","device_ids":["missing"]}`)
	assert.Contains(t, w.Body.String(), "device not in site")
}

func TestSystemHandler_Healthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	// 未配置 DB 时迁移端点返回业务错误
	w = env.do(t, http.MethodPost, "/admin/api/v1/system/migrate", "")
	assert.Contains(t, w.Body.String(), `"code":-1`)

	w = env.do(t, http.MethodPost, "/admin/api/v1/system/storage/setup", "")
	assert.Contains(t, w.Body.String(), "storage is not configured")
}
