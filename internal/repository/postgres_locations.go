package repository

import (
	"context"
	"database/sql"
	"fmt"

	"luxgrid-data/internal/domain"
)

type PostgresLocationsRepo struct {
	db *sql.DB
}

func NewPostgresLocationsRepo(db *sql.DB) *PostgresLocationsRepo {
	return &PostgresLocationsRepo{db: db}
}

const locationColumns = `
	location_id::text,
	site_id::text,
	CASE WHEN parent_id IS NULL THEN NULL ELSE parent_id::text END as parent_id,
	location_name,
	location_type,
	floor_plan_key
`

func scanLocation(scanner interface{ Scan(...any) error }) (*domain.Location, error) {
	var l domain.Location
	if err := scanner.Scan(
		&l.LocationID,
		&l.SiteID,
		&l.ParentID,
		&l.LocationName,
		&l.LocationType,
		&l.FloorPlanKey,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresLocationsRepo) ListLocations(ctx context.Context, siteID string, parentID string) ([]*domain.Location, error) {
	if siteID == "" {
		return []*domain.Location{}, nil
	}

	q := `SELECT ` + locationColumns + ` FROM locations WHERE site_id = $1`
	args := []any{siteID}
	if parentID != "" {
		q += ` AND parent_id = $2`
		args = append(args, parentID)
	}
	q += ` ORDER BY location_type, location_name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresLocationsRepo) GetLocation(ctx context.Context, siteID, locationID string) (*domain.Location, error) {
	if siteID == "" || locationID == "" {
		return nil, fmt.Errorf("site_id and location_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE site_id = $1 AND location_id = $2`,
		siteID, locationID)
	l, err := scanLocation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("location not found: location_id=%s", locationID)
		}
		return nil, err
	}
	return l, nil
}

func (r *PostgresLocationsRepo) CreateLocation(ctx context.Context, siteID string, loc *domain.Location) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if loc == nil || loc.LocationName == "" {
		return "", fmt.Errorf("location_name is required")
	}
	if loc.LocationType == "" {
		loc.LocationType = domain.LocationTypeArea
	}

	// parent 必须属于同一站点（FK 只保证存在，不保证同站点）
	if loc.ParentID.Valid {
		var n int
		if err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM locations WHERE site_id = $1 AND location_id = $2`,
			siteID, loc.ParentID.String).Scan(&n); err != nil {
			return "", err
		}
		if n == 0 {
			return "", fmt.Errorf("parent location not found in site: parent_id=%s", loc.ParentID.String)
		}
	}

	var locationID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO locations (site_id, parent_id, location_name, location_type, floor_plan_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING location_id::text`,
		siteID,
		loc.ParentID,
		loc.LocationName,
		loc.LocationType,
		loc.FloorPlanKey,
	).Scan(&locationID)
	if err != nil {
		return "", err
	}
	return locationID, nil
}

func (r *PostgresLocationsRepo) UpdateLocation(ctx context.Context, siteID, locationID string, loc *domain.Location) error {
	if siteID == "" || locationID == "" {
		return fmt.Errorf("site_id and location_id are required")
	}
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	// 不允许把自己设为自己的 parent
	if loc.ParentID.Valid && loc.ParentID.String == locationID {
		return fmt.Errorf("location cannot be its own parent")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE locations
		 SET parent_id = $3,
		     location_name = $4,
		     location_type = $5,
		     floor_plan_key = $6
		 WHERE site_id = $1 AND location_id = $2`,
		siteID,
		locationID,
		loc.ParentID,
		loc.LocationName,
		loc.LocationType,
		loc.FloorPlanKey,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("location not found: location_id=%s", locationID)
	}
	return nil
}

// DeleteLocation 子位置和挂在位置上的 zone 由 DB 级联删除
func (r *PostgresLocationsRepo) DeleteLocation(ctx context.Context, siteID, locationID string) error {
	if siteID == "" || locationID == "" {
		return fmt.Errorf("site_id and location_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM locations WHERE site_id = $1 AND location_id = $2`,
		siteID, locationID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("location not found: location_id=%s", locationID)
	}
	return nil
}
