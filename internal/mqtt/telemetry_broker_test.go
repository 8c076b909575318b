package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"
	"luxgrid-data/internal/rules"
	"luxgrid-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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
	return nil, nil
}

func TestSiteFromTopic(t *testing.T) {
	assert.Equal(t, "site-1", SiteFromTopic("luxgrid/telemetry/site-1"))
	assert.Empty(t, SiteFromTopic("luxgrid/telemetry"))
	assert.Empty(t, SiteFromTopic("other/telemetry/site-1"))
	assert.Empty(t, SiteFromTopic("luxgrid/telemetry/site-1/extra"))
}

func TestTelemetryBroker_HandleMessage(t *testing.T) {
	ctx := context.Background()
	devicesRepo := repository.NewMemoryDevicesRepo()
	rulesRepo := repository.NewMemoryRulesRepo()
	kv := newFakeKV()
	broker := NewTelemetryBroker(devicesRepo, rulesRepo, kv, rules.NewEvaluator(zap.NewNop()), zap.NewNop())

	deviceID, err := devicesRepo.CreateDevice(ctx, "site-1", &domain.Device{
		DeviceName: "Window Sensor",
		DeviceType: domain.DeviceTypeDaylightSensor,
	})
	require.NoError(t, err)

	payload := `{"device_id":"` + deviceID + `","event_type":"daylight","lux":120,"status":"online"}`
	require.NoError(t, broker.HandleMessage("luxgrid/telemetry/site-1", []byte(payload)))

	// 运行时缓存写入
	raw, err := kv.Get(ctx, store.RuntimeKey(deviceID))
	require.NoError(t, err)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.EqualValues(t, 120, snapshot["lux"])
	assert.Equal(t, "online", snapshot["status"])

	// 设备状态同步
	d, err := devicesRepo.GetDevice(ctx, "site-1", deviceID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusOnline, d.Status)
}

func TestTelemetryBroker_UnknownDeviceDropped(t *testing.T) {
	devicesRepo := repository.NewMemoryDevicesRepo()
	rulesRepo := repository.NewMemoryRulesRepo()
	kv := newFakeKV()
	broker := NewTelemetryBroker(devicesRepo, rulesRepo, kv, rules.NewEvaluator(zap.NewNop()), zap.NewNop())

	payload := `{"device_id":"ghost","event_type":"motion","zone_id":"z-1"}`
	// 未知设备不报错，也不写缓存
	require.NoError(t, broker.HandleMessage("luxgrid/telemetry/site-1", []byte(payload)))
	_, err := kv.Get(context.Background(), store.RuntimeKey("ghost"))
	assert.ErrorIs(t, err, store.ErrMiss)
}

func TestTelemetryBroker_BadInput(t *testing.T) {
	broker := NewTelemetryBroker(
		repository.NewMemoryDevicesRepo(),
		repository.NewMemoryRulesRepo(),
		newFakeKV(),
		rules.NewEvaluator(zap.NewNop()),
		zap.NewNop(),
	)

	assert.Error(t, broker.HandleMessage("bogus/topic", []byte(`{}`)))
	assert.Error(t, broker.HandleMessage("luxgrid/telemetry/site-1", []byte(`not json`)))
	assert.Error(t, broker.HandleMessage("luxgrid/telemetry/site-1", []byte(`{"event_type":"motion"}`)))
}
