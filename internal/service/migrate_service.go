package service

import (
	"context"
	"database/sql"
	"fmt"

	"luxgrid-data/internal/migrations"

	"go.uber.org/zap"
)

// MigrateService 管理端点触发的 schema 迁移
// 已应用的版本记录在 schema_migrations 表，重复调用幂等
type MigrateService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrateService 创建 MigrateService；db 为 nil 表示内存模式（迁移不可用）
func NewMigrateService(db *sql.DB, logger *zap.Logger) *MigrateService {
	return &MigrateService{db: db, logger: logger}
}

// MigrateResult 迁移执行结果
type MigrateResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// Run 按文件名顺序应用未执行的迁移
func (s *MigrateService) Run(ctx context.Context) (*MigrateResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is disabled, migrations unavailable")
	}

	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("failed to init schema_migrations: %w", err)
	}

	names, err := migrations.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	res := &MigrateResult{Applied: []string{}, Skipped: []string{}}
	for _, name := range names {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
			name).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			res.Skipped = append(res.Skipped, name)
			continue
		}

		script, err := migrations.Read(name)
		if err != nil {
			return nil, err
		}

		// 每个迁移文件一个事务
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, script); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("migration %s failed: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}

		s.logger.Info("migration applied", zap.String("version", name))
		res.Applied = append(res.Applied, name)
	}
	return res, nil
}
