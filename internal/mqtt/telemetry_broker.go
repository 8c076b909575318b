package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"
	"luxgrid-data/internal/rules"
	"luxgrid-data/internal/store"

	"go.uber.org/zap"
)

// 运行时缓存保留 24 小时，设备掉线后自然过期
const runtimeTTL = 24 * time.Hour

// TelemetryMessage 遥测消息格式
// topic: luxgrid/telemetry/<site_id>
type TelemetryMessage struct {
	DeviceID  string  `json:"device_id"`
	EventType string  `json:"event_type"` // motion / daylight / schedule
	ZoneID    string  `json:"zone_id,omitempty"`
	Lux       float64 `json:"lux,omitempty"`
	Status    string  `json:"status,omitempty"` // online / offline / error
	Ts        int64   `json:"ts,omitempty"`     // unix 秒
}

// TelemetryBroker 遥测接入
// 每条消息：写运行时缓存 -> 同步设备状态 -> 评估站点规则
type TelemetryBroker struct {
	devicesRepo repository.DevicesRepository
	rulesRepo   repository.RulesRepository
	kv          store.KV
	evaluator   *rules.Evaluator
	logger      *zap.Logger
}

// NewTelemetryBroker 创建遥测 Broker
func NewTelemetryBroker(
	devicesRepo repository.DevicesRepository,
	rulesRepo repository.RulesRepository,
	kv store.KV,
	evaluator *rules.Evaluator,
	logger *zap.Logger,
) *TelemetryBroker {
	return &TelemetryBroker{
		devicesRepo: devicesRepo,
		rulesRepo:   rulesRepo,
		kv:          kv,
		evaluator:   evaluator,
		logger:      logger,
	}
}

// SiteFromTopic 从 topic 提取 site_id；格式不符返回空串
func SiteFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "luxgrid" || parts[1] != "telemetry" {
		return ""
	}
	return parts[2]
}

// HandleMessage 处理单条遥测消息（MessageHandler 签名）
func (b *TelemetryBroker) HandleMessage(topic string, payload []byte) error {
	siteID := SiteFromTopic(topic)
	if siteID == "" {
		return fmt.Errorf("unexpected telemetry topic: %s", topic)
	}

	var msg TelemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal telemetry: %w", err)
	}
	if msg.DeviceID == "" {
		return fmt.Errorf("telemetry missing device_id")
	}

	ctx := context.Background()

	// 设备必须属于 topic 标的站点，否则丢弃
	if _, err := b.devicesRepo.GetDevice(ctx, siteID, msg.DeviceID); err != nil {
		b.logger.Warn("telemetry for unknown device dropped",
			zap.String("site_id", siteID),
			zap.String("device_id", msg.DeviceID),
		)
		return nil
	}

	if err := b.updateRuntime(ctx, siteID, &msg); err != nil {
		b.logger.Error("failed to update runtime cache",
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
	}

	if msg.Status != "" {
		if err := b.devicesRepo.UpdateDeviceStatus(ctx, siteID, msg.DeviceID, msg.Status); err != nil {
			b.logger.Error("failed to update device status",
				zap.String("device_id", msg.DeviceID),
				zap.Error(err),
			)
		}
	}

	if domain.ValidTriggerType(msg.EventType) {
		b.evaluateRules(ctx, siteID, &msg)
	}
	return nil
}

// updateRuntime 最近一条遥测写进 redis，runtime 端点直接读
func (b *TelemetryBroker) updateRuntime(ctx context.Context, siteID string, msg *TelemetryMessage) error {
	snapshot := map[string]any{
		"site_id":     siteID,
		"device_id":   msg.DeviceID,
		"event_type":  msg.EventType,
		"received_at": time.Now().UTC().Format(time.RFC3339),
	}
	if msg.ZoneID != "" {
		snapshot["zone_id"] = msg.ZoneID
	}
	if msg.EventType == domain.TriggerTypeDaylight {
		snapshot["lux"] = msg.Lux
	}
	if msg.Status != "" {
		snapshot["status"] = msg.Status
	}
	if msg.Ts > 0 {
		snapshot["ts"] = msg.Ts
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, store.RuntimeKey(msg.DeviceID), string(raw), runtimeTTL)
}

// evaluateRules 评估该站点启用的规则，命中动作先记日志
// 命令下发（set_level 等下行控制）不在这个服务的职责内
func (b *TelemetryBroker) evaluateRules(ctx context.Context, siteID string, msg *TelemetryMessage) {
	ruleList, err := b.rulesRepo.ListRules(ctx, siteID, true)
	if err != nil {
		b.logger.Error("failed to load rules for telemetry",
			zap.String("site_id", siteID),
			zap.Error(err),
		)
		return
	}
	if len(ruleList) == 0 {
		return
	}

	event := rules.Event{
		EventType: msg.EventType,
		ZoneID:    msg.ZoneID,
		Lux:       msg.Lux,
	}
	if msg.EventType == domain.TriggerTypeSchedule {
		ts := time.Now()
		if msg.Ts > 0 {
			ts = time.Unix(msg.Ts, 0)
		}
		event.Clock = ts.UTC().Format("15:04")
	}

	_, actions := b.evaluator.EvaluateAll(ruleList, event)
	for _, a := range actions {
		b.logger.Info("telemetry triggered action",
			zap.String("site_id", siteID),
			zap.String("device_id", msg.DeviceID),
			zap.String("command", a.Command),
			zap.String("target_group_id", a.TargetGroupID),
			zap.String("target_zone_id", a.TargetZoneID),
		)
	}
}
