// Package migrations 内嵌数据库 schema 迁移脚本
// 按文件名顺序应用，schema_migrations 表记录已应用版本
package migrations

import (
	"embed"
	"sort"
)

//go:embed sql/*.sql
var FS embed.FS

// List 返回所有迁移文件名（升序）
func List() ([]string, error) {
	entries, err := FS.ReadDir("sql")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read 读取单个迁移文件内容
func Read(name string) (string, error) {
	b, err := FS.ReadFile("sql/" + name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
