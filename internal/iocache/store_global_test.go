package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wctc-net-database/gradedash/schema"
)

func resetManager() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManagerImpl{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite credits and cache", func(t *testing.T) {
		resetManager()
		dir := t.TempDir()
		creditPath := filepath.Join(dir, "credits.db")
		cachePath := filepath.Join(dir, "cache.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, creditPath, schema.SQLiteBackend, cachePath))
		assert.NotNil(t, Manager.GetCreditStore())
		assert.NotNil(t, Manager.GetDocumentStore())

		// Later calls are ignored.
		require.NoError(t, InitStores(schema.DatabaseBackend("bogus"), "", "", ""))
		CloseStores()
		CloseStores()

		_, err := os.Stat(creditPath)
		assert.NoError(t, err)
		_, err = os.Stat(cachePath)
		assert.NoError(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		resetManager()
		require.NoError(t, InitStores("", "", "", ""))
		assert.IsType(t, &MemoryCreditStore{}, Manager.GetCreditStore())
		assert.Nil(t, Manager.GetDocumentStore(), "document cache is off unless configured")
		CloseStores()
	})

	t.Run("failure", func(t *testing.T) {
		resetManager()
		err := InitStores(schema.DatabaseBackend("bogus"), "", "", "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetCreditStore())
	})
}

func TestClearCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""), "missing file is fine")
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.DatabaseBackend("bogus"), "", ""))
}

func TestMigrateCredits(t *testing.T) {
	_, err := MigrateCredits(schema.NoneBackend, "", -1)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "credits.db")
	msg, err := MigrateCredits(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 2")

	msg, err = MigrateCredits(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	_, err = MigrateCredits(schema.SQLiteBackend, path, 1)
	require.NoError(t, err)
	_, err = MigrateCredits(schema.SQLiteBackend, path, 0)
	require.NoError(t, err)
	_, err = MigrateCredits(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)

	store, err := NewCreditStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.SchemaLoaded)
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintCreditStatus(&buf, schema.CreditStatus{
		Backend:      "sqlite",
		Connected:    true,
		TotalFlags:   3,
		Students:     2,
		LastUpdated:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local),
		SchemaLoaded: true,
	})
	out := buf.String()
	assert.Contains(t, out, "Credited Goals: 3\n")
	assert.Contains(t, out, "Students: 2\n")
	assert.Contains(t, out, "Last Updated: 2024-03-01 12:00:00\n")
	assert.Contains(t, out, "Migrations Applied: true\n")
}

func TestMySQLCreditColumnsAreBinary(t *testing.T) {
	create, err := migrationsFS.ReadFile("migrations/mysql/" + createCreditsMigration)
	require.NoError(t, err)
	assert.Contains(t, string(create), "credit_key VARCHAR(512) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin")
	assert.Contains(t, string(create), "goal_id VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin")

	alter, err := migrationsFS.ReadFile("migrations/mysql/000003_binary_goal_ids.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(alter), "MODIFY credit_key VARCHAR(512) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin")
	assert.Contains(t, string(alter), "MODIFY goal_id VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin")

	_, err = migrationsFS.ReadFile("migrations/mysql/000003_binary_goal_ids.down.sql")
	require.NoError(t, err)
}
