package dao

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDao 创建临时 SQLite 数据库上的 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	c := &DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.sqlite3"),
		AutoMigrate:  true,
		MaxIdleConns: 2,
		MaxOpenConns: 2,
	}
	db, err := NewDBEngine(c)
	require.NoError(t, err)

	return New(db, context.Background(), WithConfig(c))
}
