package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

const (
	// creditTable holds one row per credited (student, goal) pair.
	creditTable = "stretch_credits"

	// creditKeyPrefix namespaces the flag keys.
	creditKeyPrefix = "stretch-credit"
)

// CreditKey returns the storage key for a flag. Student names are case-insensitive,
// goal ids are not.
func CreditKey(student, goalID string) string {
	return fmt.Sprintf("%s:%s:%s", creditKeyPrefix, studentKey(student), goalID)
}

func studentKey(student string) string {
	return strings.ToLower(strings.TrimSpace(student))
}

func validateCredit(student, goalID string) error {
	if studentKey(student) == "" {
		return errors.New("student name cannot be empty")
	}
	if strings.TrimSpace(goalID) == "" {
		return errors.New("goal id cannot be empty")
	}
	return nil
}

// CreditStoreImpl stores credit flags in a SQL table. A present row means credited.
type CreditStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.CreditStore = &CreditStoreImpl{} // Compile-time check

// NewCreditStore opens the credit store for the backend. The none backend keeps
// flags in memory for the lifetime of the process.
func NewCreditStore(backend schema.DatabaseBackend, connStr string) (contract.CreditStore, error) {
	if backend == schema.NoneBackend {
		return NewMemoryCreditStore(), nil
	}

	db, err := openDatabase(backend, connStr, GetCreditDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credit store: %w", err)
	}
	if err := ensureCreditTable(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CreditStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// Get reports whether the flag is set.
func (s *CreditStoreImpl) Get(ctx context.Context, student, goalID string) (bool, error) {
	if err := validateCredit(student, goalID); err != nil {
		return false, err
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE credit_key = %s",
		quoteTableName(creditTable, s.backend), placeholder(s.backend, 1))

	var one int
	err := s.db.QueryRowContext(ctx, query, CreditKey(student, goalID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read credit for %s/%s: %w", student, goalID, err)
	}
	return true, nil
}

// Set stores the flag when credited is true and removes it otherwise.
func (s *CreditStoreImpl) Set(ctx context.Context, student, goalID string, credited bool) error {
	if err := validateCredit(student, goalID); err != nil {
		return err
	}
	key := CreditKey(student, goalID)

	if !credited {
		query := fmt.Sprintf("DELETE FROM %s WHERE credit_key = %s",
			quoteTableName(creditTable, s.backend), placeholder(s.backend, 1))
		if _, err := s.db.ExecContext(ctx, query, key); err != nil {
			return fmt.Errorf("failed to clear credit for %s/%s: %w", student, goalID, err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, s.getUpsertQuery(), key, studentKey(student), strings.TrimSpace(student), goalID, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store credit for %s/%s: %w", student, goalID, err)
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *CreditStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(creditTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (credit_key, student_key, student, goal_id, updated_at) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE student = new.student, updated_at = new.updated_at`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (credit_key, student_key, student, goal_id, updated_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (credit_key) DO UPDATE SET student = EXCLUDED.student, updated_at = EXCLUDED.updated_at`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (credit_key, student_key, student, goal_id, updated_at) VALUES (?, ?, ?, ?, ?)`, quoted)
	}
}

// List returns every credited flag ordered by student then goal.
func (s *CreditStoreImpl) List(ctx context.Context) ([]schema.CreditFlag, error) {
	query := fmt.Sprintf("SELECT student, goal_id FROM %s ORDER BY student_key, goal_id", quoteTableName(creditTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	flags := []schema.CreditFlag{}
	for rows.Next() {
		var flag schema.CreditFlag
		if err := rows.Scan(&flag.Student, &flag.GoalID); err != nil {
			return nil, fmt.Errorf("failed to scan credit row: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

// GetStatus returns flag counts and whether the migration history is present.
func (s *CreditStoreImpl) GetStatus() (schema.CreditStatus, error) {
	status := schema.CreditStatus{Backend: string(s.backend), Connected: s.db != nil}
	if s.db == nil {
		return status, nil
	}

	quoted := quoteTableName(creditTable, s.backend)
	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT student_key) FROM %s", quoted))
	if err := row.Scan(&status.TotalFlags, &status.Students); err != nil {
		return status, fmt.Errorf("failed to count credits: %w", err)
	}
	if status.TotalFlags > 0 {
		var last int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT MAX(updated_at) FROM %s", quoted)).Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last update time: %w", err)
		}
		status.LastUpdated = time.Unix(last, 0)
	}

	var applied int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err == nil {
		status.SchemaLoaded = applied > 0
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (s *CreditStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// MemoryCreditStore keeps flags in a map; used by the none backend.
type MemoryCreditStore struct {
	mu    sync.RWMutex
	flags map[string]memoryCredit
	now   func() time.Time
}

type memoryCredit struct {
	flag    schema.CreditFlag
	updated time.Time
}

var _ contract.CreditStore = &MemoryCreditStore{} // Compile-time check

// NewMemoryCreditStore returns an empty in-memory store.
func NewMemoryCreditStore() *MemoryCreditStore {
	return &MemoryCreditStore{flags: map[string]memoryCredit{}, now: time.Now}
}

// Get reports whether the flag is set.
func (s *MemoryCreditStore) Get(_ context.Context, student, goalID string) (bool, error) {
	if err := validateCredit(student, goalID); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flags[CreditKey(student, goalID)]
	return ok, nil
}

// Set stores the flag when credited is true and removes it otherwise.
func (s *MemoryCreditStore) Set(_ context.Context, student, goalID string, credited bool) error {
	if err := validateCredit(student, goalID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := CreditKey(student, goalID)
	if !credited {
		delete(s.flags, key)
		return nil
	}
	s.flags[key] = memoryCredit{
		flag:    schema.CreditFlag{Student: strings.TrimSpace(student), GoalID: goalID},
		updated: s.now(),
	}
	return nil
}

// List returns every credited flag ordered by student then goal.
func (s *MemoryCreditStore) List(_ context.Context) ([]schema.CreditFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags := make([]schema.CreditFlag, 0, len(s.flags))
	for _, c := range s.flags {
		flags = append(flags, c.flag)
	}
	slices.SortFunc(flags, func(a, b schema.CreditFlag) int {
		if c := strings.Compare(studentKey(a.Student), studentKey(b.Student)); c != 0 {
			return c
		}
		return strings.Compare(a.GoalID, b.GoalID)
	})
	return flags, nil
}

// GetStatus returns flag counts.
func (s *MemoryCreditStore) GetStatus() (schema.CreditStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.CreditStatus{Backend: string(schema.NoneBackend), Connected: true, TotalFlags: len(s.flags)}
	students := map[string]struct{}{}
	for _, c := range s.flags {
		students[studentKey(c.flag.Student)] = struct{}{}
		if c.updated.After(status.LastUpdated) {
			status.LastUpdated = c.updated
		}
	}
	status.Students = len(students)
	return status, nil
}

// Close is a no-op.
func (s *MemoryCreditStore) Close() error {
	return nil
}
