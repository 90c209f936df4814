package builtin

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMovies(context.Background(), MemoryDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
