package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
)

type PostgresSitesRepo struct {
	db *sql.DB
}

func NewPostgresSitesRepo(db *sql.DB) *PostgresSitesRepo {
	return &PostgresSitesRepo{db: db}
}

func (r *PostgresSitesRepo) ListSites(ctx context.Context, filters SiteFilters, page, size int) ([]*domain.Site, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argN := 1

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filters.Status)
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(site_name ILIKE $%d OR COALESCE(city, '') ILIKE $%d)", argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}

	queryCount := `SELECT COUNT(*) FROM sites WHERE ` + strings.Join(where, " AND ")
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

	q := `
		SELECT
			site_id::text,
			site_name,
			address,
			city,
			timezone,
			status,
			CASE WHEN metadata IS NULL THEN NULL ELSE metadata::text END as metadata,
			created_at,
			updated_at
		FROM sites
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY site_name
		LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Site{}
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(
			&s.SiteID,
			&s.SiteName,
			&s.Address,
			&s.City,
			&s.Timezone,
			&s.Status,
			&s.Metadata,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *PostgresSitesRepo) GetSite(ctx context.Context, siteID string) (*domain.Site, error) {
	if siteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}

	q := `
		SELECT
			site_id::text,
			site_name,
			address,
			city,
			timezone,
			status,
			CASE WHEN metadata IS NULL THEN NULL ELSE metadata::text END as metadata,
			created_at,
			updated_at
		FROM sites
		WHERE site_id = $1
	`
	var s domain.Site
	err := r.db.QueryRowContext(ctx, q, siteID).Scan(
		&s.SiteID,
		&s.SiteName,
		&s.Address,
		&s.City,
		&s.Timezone,
		&s.Status,
		&s.Metadata,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("site not found: site_id=%s", siteID)
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSitesRepo) CreateSite(ctx context.Context, site *domain.Site) (string, error) {
	if site == nil {
		return "", fmt.Errorf("site is required")
	}
	if site.SiteName == "" {
		return "", fmt.Errorf("site_name is required")
	}

	// 默认值
	if site.Timezone == "" {
		site.Timezone = "UTC"
	}
	if site.Status == "" {
		site.Status = domain.SiteStatusActive
	}

	var siteID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sites (site_name, address, city, timezone, status, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING site_id::text`,
		site.SiteName,
		site.Address,
		site.City,
		site.Timezone,
		site.Status,
		site.Metadata,
	).Scan(&siteID)
	if err != nil {
		return "", err
	}
	return siteID, nil
}

func (r *PostgresSitesRepo) UpdateSite(ctx context.Context, siteID string, site *domain.Site) error {
	if siteID == "" {
		return fmt.Errorf("site_id is required")
	}
	if site == nil {
		return fmt.Errorf("site is required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE sites
		 SET site_name = $2,
		     address = $3,
		     city = $4,
		     timezone = $5,
		     status = $6,
		     metadata = $7,
		     updated_at = now()
		 WHERE site_id = $1`,
		siteID,
		site.SiteName,
		site.Address,
		site.City,
		site.Timezone,
		site.Status,
		site.Metadata,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("site not found: site_id=%s", siteID)
	}
	return nil
}

// DeleteSite 站点下的 locations/zones/devices/people/groups/rules 由 DB 级联删除
func (r *PostgresSitesRepo) DeleteSite(ctx context.Context, siteID string) error {
	if siteID == "" {
		return fmt.Errorf("site_id is required")
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE site_id = $1`, siteID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("site not found: site_id=%s", siteID)
	}
	return nil
}
