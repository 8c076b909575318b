//go:build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"luxgrid-data/internal/config"
	"luxgrid-data/internal/database"
	"luxgrid-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要一个已应用迁移的 PostgreSQL，连接参数走 DB_* 环境变量
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping integration test")
	}
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSite(t *testing.T, db *sql.DB) string {
	t.Helper()
	var siteID string
	err := db.QueryRow(
		`INSERT INTO sites (site_name, timezone, status) VALUES ($1, 'UTC', 'active')
		 RETURNING site_id::text`,
		"integration-test-"+t.Name()).Scan(&siteID)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM sites WHERE site_id = $1`, siteID)
	})
	return siteID
}

func TestPostgresDevicesRepo_CRUD(t *testing.T) {
	db := openTestDB(t)
	siteID := createTestSite(t, db)
	repo := NewPostgresDevicesRepo(db)
	ctx := context.Background()

	deviceID, err := repo.CreateDevice(ctx, siteID, &domain.Device{
		DeviceName:   "IT Lobby Light",
		DeviceType:   domain.DeviceTypeLuminaire,
		SerialNumber: sql.NullString{String: "IT-SN-1", Valid: true},
	})
	require.NoError(t, err)

	d, err := repo.GetDevice(ctx, siteID, deviceID)
	require.NoError(t, err)
	assert.Equal(t, "IT Lobby Light", d.DeviceName)
	assert.Equal(t, domain.DeviceStatusOffline, d.Status)

	// 状态过滤 + 搜索
	items, total, err := repo.ListDevices(ctx, siteID, DeviceFilters{
		Status:        []string{domain.DeviceStatusOffline},
		SearchKeyword: "lobby",
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)

	require.NoError(t, repo.UpdateDeviceStatus(ctx, siteID, deviceID, domain.DeviceStatusOnline))
	d, err = repo.GetDevice(ctx, siteID, deviceID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusOnline, d.Status)

	// 组件跟随设备
	compID, err := repo.CreateComponent(ctx, siteID, deviceID, &domain.Component{
		ComponentKind: domain.ComponentKindDriver,
	})
	require.NoError(t, err)

	comps, err := repo.ListComponents(ctx, siteID, deviceID)
	require.NoError(t, err)
	assert.Len(t, comps, 1)

	// 删除设备级联删除组件
	require.NoError(t, repo.DeleteDevice(ctx, siteID, deviceID))
	_, err = repo.GetComponent(ctx, siteID, compID)
	assert.Error(t, err)
}

func TestPostgresDevicesRepo_SiteIsolation(t *testing.T) {
	db := openTestDB(t)
	siteA := createTestSite(t, db)
	siteB := createTestSite(t, db)
	repo := NewPostgresDevicesRepo(db)
	ctx := context.Background()

	deviceID, err := repo.CreateDevice(ctx, siteA, &domain.Device{
		DeviceName: "Isolated Device",
		DeviceType: domain.DeviceTypeGateway,
	})
	require.NoError(t, err)

	_, err = repo.GetDevice(ctx, siteB, deviceID)
	assert.Error(t, err)

	_, total, err := repo.ListDevices(ctx, siteB, DeviceFilters{}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}
