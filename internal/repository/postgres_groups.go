package repository

import (
	"context"
	"database/sql"
	"fmt"

	"luxgrid-data/internal/domain"

	"github.com/lib/pq"
)

type PostgresGroupsRepo struct {
	db *sql.DB
}

func NewPostgresGroupsRepo(db *sql.DB) *PostgresGroupsRepo {
	return &PostgresGroupsRepo{db: db}
}

func (r *PostgresGroupsRepo) ListGroups(ctx context.Context, siteID string) ([]*domain.Group, error) {
	if siteID == "" {
		return []*domain.Group{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id::text, site_id::text, group_name, description
		 FROM groups
		 WHERE site_id = $1
		 ORDER BY group_name`,
		siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Group{}
	byID := map[string]*domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.GroupID, &g.SiteID, &g.GroupName, &g.Description); err != nil {
			return nil, err
		}
		g.PersonIDs = []string{}
		g.DeviceIDs = []string{}
		out = append(out, &g)
		byID[g.GroupID] = &g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 批量装配成员（避免 N+1）
	groupIDs := make([]string, 0, len(out))
	for _, g := range out {
		groupIDs = append(groupIDs, g.GroupID)
	}

	prows, err := r.db.QueryContext(ctx,
		`SELECT group_id::text, person_id::text
		 FROM group_people
		 WHERE group_id = ANY($1)`,
		pq.Array(groupIDs))
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var gid, pid string
		if err := prows.Scan(&gid, &pid); err != nil {
			return nil, err
		}
		if g, ok := byID[gid]; ok {
			g.PersonIDs = append(g.PersonIDs, pid)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	drows, err := r.db.QueryContext(ctx,
		`SELECT group_id::text, device_id::text
		 FROM group_devices
		 WHERE group_id = ANY($1)`,
		pq.Array(groupIDs))
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var gid, did string
		if err := drows.Scan(&gid, &did); err != nil {
			return nil, err
		}
		if g, ok := byID[gid]; ok {
			g.DeviceIDs = append(g.DeviceIDs, did)
		}
	}
	return out, drows.Err()
}

func (r *PostgresGroupsRepo) GetGroup(ctx context.Context, siteID, groupID string) (*domain.Group, error) {
	if siteID == "" || groupID == "" {
		return nil, fmt.Errorf("site_id and group_id are required")
	}

	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT group_id::text, site_id::text, group_name, description
		 FROM groups
		 WHERE site_id = $1 AND group_id = $2`,
		siteID, groupID).Scan(&g.GroupID, &g.SiteID, &g.GroupName, &g.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("group not found: group_id=%s", groupID)
		}
		return nil, err
	}

	g.PersonIDs = []string{}
	g.DeviceIDs = []string{}

	prows, err := r.db.QueryContext(ctx,
		`SELECT person_id::text FROM group_people WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var pid string
		if err := prows.Scan(&pid); err != nil {
			return nil, err
		}
		g.PersonIDs = append(g.PersonIDs, pid)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	drows, err := r.db.QueryContext(ctx,
		`SELECT device_id::text FROM group_devices WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var did string
		if err := drows.Scan(&did); err != nil {
			return nil, err
		}
		g.DeviceIDs = append(g.DeviceIDs, did)
	}
	return &g, drows.Err()
}

// CreateGroup group 行 + 成员关系在同一个事务里写入
func (r *PostgresGroupsRepo) CreateGroup(ctx context.Context, siteID string, group *domain.Group) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if group == nil || group.GroupName == "" {
		return "", fmt.Errorf("group_name is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var groupID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO groups (site_id, group_name, description)
		 VALUES ($1, $2, $3)
		 RETURNING group_id::text`,
		siteID, group.GroupName, group.Description).Scan(&groupID)
	if err != nil {
		return "", err
	}

	if err := insertGroupMembers(ctx, tx, groupID, group.PersonIDs, group.DeviceIDs); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return groupID, nil
}

// UpdateGroup 成员关系整体替换（delete + insert，同一事务）
func (r *PostgresGroupsRepo) UpdateGroup(ctx context.Context, siteID, groupID string, group *domain.Group) error {
	if siteID == "" || groupID == "" {
		return fmt.Errorf("site_id and group_id are required")
	}
	if group == nil {
		return fmt.Errorf("group is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups
		 SET group_name = $3, description = $4
		 WHERE site_id = $1 AND group_id = $2`,
		siteID, groupID, group.GroupName, group.Description)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("group not found: group_id=%s", groupID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_people WHERE group_id = $1`, groupID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_devices WHERE group_id = $1`, groupID); err != nil {
		return err
	}
	if err := insertGroupMembers(ctx, tx, groupID, group.PersonIDs, group.DeviceIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteGroup 成员关系由 DB 级联删除
func (r *PostgresGroupsRepo) DeleteGroup(ctx context.Context, siteID, groupID string) error {
	if siteID == "" || groupID == "" {
		return fmt.Errorf("site_id and group_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM groups WHERE site_id = $1 AND group_id = $2`,
		siteID, groupID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("group not found: group_id=%s", groupID)
	}
	return nil
}

func insertGroupMembers(ctx context.Context, tx *sql.Tx, groupID string, personIDs, deviceIDs []string) error {
	for _, pid := range personIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_people (group_id, person_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			groupID, pid); err != nil {
			return fmt.Errorf("failed to add person %s: %w", pid, err)
		}
	}
	for _, did := range deviceIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_devices (group_id, device_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			groupID, did); err != nil {
			return fmt.Errorf("failed to add device %s: %w", did, err)
		}
	}
	return nil
}
