package domain

import (
	"database/sql"
	"encoding/json"
)

// Device 设备领域模型（对应 devices 表）
// 站点内被管理的硬件：灯具、传感器、网关等
type Device struct {
	DeviceID string `db:"device_id"`
	SiteID   string `db:"site_id"` // NOT NULL

	DeviceName   string         `db:"device_name"` // NOT NULL
	DeviceType   string         `db:"device_type"` // NOT NULL, enum
	SerialNumber sql.NullString `db:"serial_number"` // nullable, unique

	// 位置绑定
	LocationID sql.NullString `db:"location_id"` // nullable
	ZoneID     sql.NullString `db:"zone_id"`     // nullable

	Status          string         `db:"status"`           // NOT NULL, default 'offline'
	FirmwareVersion sql.NullString `db:"firmware_version"` // nullable
	Metadata        sql.NullString `db:"metadata"`         // nullable, JSONB
}

// 设备类型枚举
const (
	DeviceTypeLuminaire      = "luminaire"
	DeviceTypeMotionSensor   = "motion_sensor"
	DeviceTypeDaylightSensor = "daylight_sensor"
	DeviceTypeGateway        = "gateway"
	DeviceTypeController     = "controller"
)

// 设备状态枚举
const (
	DeviceStatusOnline  = "online"
	DeviceStatusOffline = "offline"
	DeviceStatusError   = "error"
)

// ValidDeviceType 校验设备类型枚举
func ValidDeviceType(t string) bool {
	switch t {
	case DeviceTypeLuminaire, DeviceTypeMotionSensor, DeviceTypeDaylightSensor,
		DeviceTypeGateway, DeviceTypeController:
		return true
	}
	return false
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (d *Device) ToJSON() map[string]any {
	m := map[string]any{
		"device_id":   d.DeviceID,
		"site_id":     d.SiteID,
		"device_name": d.DeviceName,
		"device_type": d.DeviceType,
		"status":      d.Status,
	}
	if d.SerialNumber.Valid {
		m["serial_number"] = d.SerialNumber.String
	}
	if d.LocationID.Valid {
		m["location_id"] = d.LocationID.String
	} else {
		m["location_id"] = nil
	}
	if d.ZoneID.Valid {
		m["zone_id"] = d.ZoneID.String
	} else {
		m["zone_id"] = nil
	}
	if d.FirmwareVersion.Valid {
		m["firmware_version"] = d.FirmwareVersion.String
	}
	if d.Metadata.Valid {
		var jsonData any
		if err := json.Unmarshal([]byte(d.Metadata.String), &jsonData); err == nil {
			m["metadata"] = jsonData
		} else {
			m["metadata"] = d.Metadata.String
		}
	}
	return m
}
