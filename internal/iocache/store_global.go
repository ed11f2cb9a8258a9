package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// documentTable is the name of the table for the snapshot document cache.
const documentTable = "document_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for the document cache.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetCreditDBFilePath returns the path to the SQLite DB file for credit flags.
func GetCreditDBFilePath() string {
	return contract.GetCreditDBFilePath()
}

// InitStores initializes the global manager.
// An empty cacheBackend leaves the document cache disabled; an empty creditBackend
// falls back to the in-memory store so credit reads always have somewhere to go.
func InitStores(creditBackend schema.DatabaseBackend, creditConnStr string, cacheBackend schema.DatabaseBackend, cacheConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		if creditBackend == "" {
			creditBackend = schema.NoneBackend
		}
		credits, err := NewCreditStore(creditBackend, creditConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize credit store: %w", err)
			return
		}

		var documents contract.CacheStore
		if cacheBackend != "" && cacheBackend != schema.NoneBackend {
			documents, err = NewCacheStore(documentTable, cacheBackend, cacheConnStr)
			if err != nil {
				_ = credits.Close()
				initErr = fmt.Errorf("failed to initialize document cache: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.credits = credits
		Manager.documents = documents
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.documents != nil {
			_ = Manager.documents.Close()
		}
		if Manager.credits != nil {
			_ = Manager.credits.Close()
		}
	})
}

// ClearCache clears the document cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropSQLTable(backend, connStr, documentTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}
	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
