package repository

import (
	"context"
	"database/sql"
	"fmt"

	"luxgrid-data/internal/domain"
)

type PostgresZonesRepo struct {
	db *sql.DB
}

func NewPostgresZonesRepo(db *sql.DB) *PostgresZonesRepo {
	return &PostgresZonesRepo{db: db}
}

const zoneColumns = `
	zone_id::text,
	site_id::text,
	location_id::text,
	zone_name,
	CASE WHEN polygon IS NULL THEN NULL ELSE polygon::text END as polygon,
	color
`

func scanZone(scanner interface{ Scan(...any) error }) (*domain.Zone, error) {
	var z domain.Zone
	if err := scanner.Scan(
		&z.ZoneID,
		&z.SiteID,
		&z.LocationID,
		&z.ZoneName,
		&z.Polygon,
		&z.Color,
	); err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *PostgresZonesRepo) ListZones(ctx context.Context, siteID string, locationID string) ([]*domain.Zone, error) {
	if siteID == "" {
		return []*domain.Zone{}, nil
	}

	q := `SELECT ` + zoneColumns + ` FROM zones WHERE site_id = $1`
	args := []any{siteID}
	if locationID != "" {
		q += ` AND location_id = $2`
		args = append(args, locationID)
	}
	q += ` ORDER BY zone_name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (r *PostgresZonesRepo) GetZone(ctx context.Context, siteID, zoneID string) (*domain.Zone, error) {
	if siteID == "" || zoneID == "" {
		return nil, fmt.Errorf("site_id and zone_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE site_id = $1 AND zone_id = $2`,
		siteID, zoneID)
	z, err := scanZone(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("zone not found: zone_id=%s", zoneID)
		}
		return nil, err
	}
	return z, nil
}

func (r *PostgresZonesRepo) CreateZone(ctx context.Context, siteID string, zone *domain.Zone) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if zone == nil || zone.ZoneName == "" {
		return "", fmt.Errorf("zone_name is required")
	}
	if zone.LocationID == "" {
		return "", fmt.Errorf("location_id is required")
	}

	var zoneID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO zones (site_id, location_id, zone_name, polygon, color)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING zone_id::text`,
		siteID,
		zone.LocationID,
		zone.ZoneName,
		zone.Polygon,
		zone.Color,
	).Scan(&zoneID)
	if err != nil {
		return "", err
	}
	return zoneID, nil
}

func (r *PostgresZonesRepo) UpdateZone(ctx context.Context, siteID, zoneID string, zone *domain.Zone) error {
	if siteID == "" || zoneID == "" {
		return fmt.Errorf("site_id and zone_id are required")
	}
	if zone == nil {
		return fmt.Errorf("zone is required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE zones
		 SET location_id = $3,
		     zone_name = $4,
		     polygon = $5,
		     color = $6
		 WHERE site_id = $1 AND zone_id = $2`,
		siteID,
		zoneID,
		zone.LocationID,
		zone.ZoneName,
		zone.Polygon,
		zone.Color,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("zone not found: zone_id=%s", zoneID)
	}
	return nil
}

func (r *PostgresZonesRepo) DeleteZone(ctx context.Context, siteID, zoneID string) error {
	if siteID == "" || zoneID == "" {
		return fmt.Errorf("site_id and zone_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM zones WHERE site_id = $1 AND zone_id = $2`,
		siteID, zoneID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("zone not found: zone_id=%s", zoneID)
	}
	return nil
}
