package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"luxgrid-data/internal/config"
	"luxgrid-data/internal/database"

	_ "github.com/lib/pq"
)

// 手动应用单个迁移文件（运维工具）
// 正常流程走 POST /admin/api/v1/system/migrate（内嵌迁移 + schema_migrations 记录）
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	migrationFile := os.Args[1]
	sqlContent, err := os.ReadFile(migrationFile)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to database: %s\n\n", cfg.Database.Database)

	// 去掉注释行再按分号切分执行
	var lines []string
	for _, line := range strings.Split(string(sqlContent), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	statements := strings.Split(strings.Join(lines, "\n"), ";")
	executed := 0
	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		fmt.Printf("Executing statement %d/%d...\n", i+1, len(statements))
		if _, err := db.Exec(stmt); err != nil {
			preview := stmt
			if len(preview) > 100 {
				preview = preview[:100]
			}
			log.Fatalf("Failed to execute statement %d: %v\nStatement: %s", i+1, err, preview)
		}
		executed++
	}

	fmt.Printf("Migration completed: %d statements executed\n", executed)
}
