package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"

	"github.com/lib/pq"
)

type PostgresDevicesRepo struct {
	db *sql.DB
}

func NewPostgresDevicesRepo(db *sql.DB) *PostgresDevicesRepo {
	return &PostgresDevicesRepo{db: db}
}

const deviceColumns = `
	device_id::text,
	site_id::text,
	device_name,
	device_type,
	serial_number,
	CASE WHEN location_id IS NULL THEN NULL ELSE location_id::text END as location_id,
	CASE WHEN zone_id IS NULL THEN NULL ELSE zone_id::text END as zone_id,
	status,
	firmware_version,
	CASE WHEN metadata IS NULL THEN NULL ELSE metadata::text END as metadata
`

func scanDevice(scanner interface{ Scan(...any) error }) (*domain.Device, error) {
	var d domain.Device
	if err := scanner.Scan(
		&d.DeviceID,
		&d.SiteID,
		&d.DeviceName,
		&d.DeviceType,
		&d.SerialNumber,
		&d.LocationID,
		&d.ZoneID,
		&d.Status,
		&d.FirmwareVersion,
		&d.Metadata,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDevicesRepo) ListDevices(ctx context.Context, siteID string, filters DeviceFilters, page, size int) ([]*domain.Device, int, error) {
	if siteID == "" {
		return []*domain.Device{}, 0, nil
	}

	where := []string{"site_id = $1"}
	args := []any{siteID}
	argN := 2

	if len(filters.Status) > 0 {
		where = append(where, fmt.Sprintf("status = ANY($%d)", argN))
		args = append(args, pq.Array(filters.Status))
		argN++
	}
	if filters.DeviceType != "" {
		where = append(where, fmt.Sprintf("device_type = $%d", argN))
		args = append(args, filters.DeviceType)
		argN++
	}
	if filters.ZoneID != "" {
		where = append(where, fmt.Sprintf("zone_id = $%d", argN))
		args = append(args, filters.ZoneID)
		argN++
	}
	if filters.LocationID != "" {
		where = append(where, fmt.Sprintf("location_id = $%d", argN))
		args = append(args, filters.LocationID)
		argN++
	}
	if filters.SearchKeyword != "" {
		where = append(where, fmt.Sprintf("(device_name ILIKE $%d OR COALESCE(serial_number, '') ILIKE $%d)", argN, argN))
		args = append(args, "%"+filters.SearchKeyword+"%")
		argN++
	}

	queryCount := `SELECT COUNT(*) FROM devices WHERE ` + strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, queryCount, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size
	args = append(args, size, offset)

	q := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY device_name
		LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *PostgresDevicesRepo) GetDevice(ctx context.Context, siteID, deviceID string) (*domain.Device, error) {
	if siteID == "" || deviceID == "" {
		return nil, fmt.Errorf("site_id and device_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE site_id = $1 AND device_id = $2`,
		siteID, deviceID)
	d, err := scanDevice(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("device not found: device_id=%s", deviceID)
		}
		return nil, err
	}
	return d, nil
}

func (r *PostgresDevicesRepo) CreateDevice(ctx context.Context, siteID string, device *domain.Device) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if device == nil || device.DeviceName == "" {
		return "", fmt.Errorf("device_name is required")
	}
	if !domain.ValidDeviceType(device.DeviceType) {
		return "", fmt.Errorf("invalid device_type: %s", device.DeviceType)
	}
	if device.Status == "" {
		device.Status = domain.DeviceStatusOffline
	}

	var deviceID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO devices (site_id, device_name, device_type, serial_number, location_id, zone_id, status, firmware_version, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING device_id::text`,
		siteID,
		device.DeviceName,
		device.DeviceType,
		device.SerialNumber,
		device.LocationID,
		device.ZoneID,
		device.Status,
		device.FirmwareVersion,
		device.Metadata,
	).Scan(&deviceID)
	if err != nil {
		return "", err
	}
	return deviceID, nil
}

func (r *PostgresDevicesRepo) UpdateDevice(ctx context.Context, siteID, deviceID string, device *domain.Device) error {
	if siteID == "" || deviceID == "" {
		return fmt.Errorf("site_id and device_id are required")
	}
	if device == nil {
		return fmt.Errorf("device is required")
	}
	if device.DeviceType != "" && !domain.ValidDeviceType(device.DeviceType) {
		return fmt.Errorf("invalid device_type: %s", device.DeviceType)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE devices
		 SET device_name = $3,
		     device_type = $4,
		     serial_number = $5,
		     location_id = $6,
		     zone_id = $7,
		     status = $8,
		     firmware_version = $9,
		     metadata = $10
		 WHERE site_id = $1 AND device_id = $2`,
		siteID,
		deviceID,
		device.DeviceName,
		device.DeviceType,
		device.SerialNumber,
		device.LocationID,
		device.ZoneID,
		device.Status,
		device.FirmwareVersion,
		device.Metadata,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	return nil
}

// DeleteDevice components、group_devices 由 DB 级联删除
func (r *PostgresDevicesRepo) DeleteDevice(ctx context.Context, siteID, deviceID string) error {
	if siteID == "" || deviceID == "" {
		return fmt.Errorf("site_id and device_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM devices WHERE site_id = $1 AND device_id = $2`,
		siteID, deviceID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	return nil
}

// UpdateDeviceStatus 遥测接入用：只改 status
func (r *PostgresDevicesRepo) UpdateDeviceStatus(ctx context.Context, siteID, deviceID, status string) error {
	if siteID == "" || deviceID == "" {
		return fmt.Errorf("site_id and device_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE devices SET status = $3 WHERE site_id = $1 AND device_id = $2`,
		siteID, deviceID, status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("device not found: device_id=%s", deviceID)
	}
	return nil
}

// ============================================
// Component 操作
// ============================================

const componentColumns = `
	component_id::text,
	device_id::text,
	site_id::text,
	component_kind,
	model,
	firmware_version,
	status
`

func scanComponent(scanner interface{ Scan(...any) error }) (*domain.Component, error) {
	var c domain.Component
	if err := scanner.Scan(
		&c.ComponentID,
		&c.DeviceID,
		&c.SiteID,
		&c.ComponentKind,
		&c.Model,
		&c.FirmwareVersion,
		&c.Status,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresDevicesRepo) ListComponents(ctx context.Context, siteID, deviceID string) ([]*domain.Component, error) {
	if siteID == "" || deviceID == "" {
		return []*domain.Component{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+componentColumns+`
		 FROM components
		 WHERE site_id = $1 AND device_id = $2
		 ORDER BY component_kind`,
		siteID, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresDevicesRepo) GetComponent(ctx context.Context, siteID, componentID string) (*domain.Component, error) {
	if siteID == "" || componentID == "" {
		return nil, fmt.Errorf("site_id and component_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+componentColumns+` FROM components WHERE site_id = $1 AND component_id = $2`,
		siteID, componentID)
	c, err := scanComponent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("component not found: component_id=%s", componentID)
		}
		return nil, err
	}
	return c, nil
}

func (r *PostgresDevicesRepo) CreateComponent(ctx context.Context, siteID, deviceID string, comp *domain.Component) (string, error) {
	if siteID == "" || deviceID == "" {
		return "", fmt.Errorf("site_id and device_id are required")
	}
	if comp == nil || comp.ComponentKind == "" {
		return "", fmt.Errorf("component_kind is required")
	}
	if comp.Status == "" {
		comp.Status = "ok"
	}

	var componentID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO components (device_id, site_id, component_kind, model, firmware_version, status)
		 SELECT d.device_id, d.site_id, $3, $4, $5, $6
		 FROM devices d
		 WHERE d.site_id = $1 AND d.device_id = $2
		 RETURNING component_id::text`,
		siteID,
		deviceID,
		comp.ComponentKind,
		comp.Model,
		comp.FirmwareVersion,
		comp.Status,
	).Scan(&componentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("device not found: device_id=%s", deviceID)
		}
		return "", err
	}
	return componentID, nil
}

func (r *PostgresDevicesRepo) UpdateComponent(ctx context.Context, siteID, componentID string, comp *domain.Component) error {
	if siteID == "" || componentID == "" {
		return fmt.Errorf("site_id and component_id are required")
	}
	if comp == nil {
		return fmt.Errorf("component is required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE components
		 SET component_kind = $3,
		     model = $4,
		     firmware_version = $5,
		     status = $6
		 WHERE site_id = $1 AND component_id = $2`,
		siteID,
		componentID,
		comp.ComponentKind,
		comp.Model,
		comp.FirmwareVersion,
		comp.Status,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("component not found: component_id=%s", componentID)
	}
	return nil
}

func (r *PostgresDevicesRepo) DeleteComponent(ctx context.Context, siteID, componentID string) error {
	if siteID == "" || componentID == "" {
		return fmt.Errorf("site_id and component_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM components WHERE site_id = $1 AND component_id = $2`,
		siteID, componentID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("component not found: component_id=%s", componentID)
	}
	return nil
}
