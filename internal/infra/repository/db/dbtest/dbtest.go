// Package dbtest 提供測試用的 sqlite in-memory 資料庫
package dbtest

import (
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewDao 每個測試使用獨立的 in-memory 資料庫, 並完成 migrate
func NewDao(t testing.TB) *db.DbDao {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := db.GetSqliteConn(dsn)
	require.NoError(t, err)

	dao := db.NewDbDao(conn)
	require.NoError(t, dao.InitMigrate())

	t.Cleanup(func() {
		_ = dao.Close()
	})
	return dao
}
