// Package core has the reconciliation, statistics, filtering and feedback logic of the dashboard.
package core

import (
	"context"
	"time"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/outwriter"
	"github.com/wctc-net-database/gradedash/internal/parquet"
	"github.com/wctc-net-database/gradedash/schema"
)

// ExecutorFunc defines the function signature for executing the list views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) error

// Session is one loaded and reconciled dataset with the collaborators every view needs.
// It is rebuilt on every load and never shared between loads.
type Session struct {
	Dataset    *schema.Dataset
	Aggregates Aggregates
	Catalog    *GoalCatalog
	Credits    contract.CreditReader
}

// NewSession loads the documents, reconciles them and resolves the goal catalog.
func NewSession(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) (*Session, error) {
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewSessionFromDataset(ds, cfg, mgr)
}

// NewSessionFromDataset reconciles an already loaded dataset.
func NewSessionFromDataset(ds *schema.Dataset, cfg *contract.Config, mgr contract.StoreManager) (*Session, error) {
	catalog, err := LoadGoalCatalog(cfg.GoalsFile, cfg.Goals)
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		contract.LogInfo("⚠️  %s", w)
	}
	return &Session{
		Dataset:    ds,
		Aggregates: Reconcile(ds.Current, ds.History),
		Catalog:    catalog,
		Credits:    CreditReaderOf(mgr),
	}, nil
}

// CreditReaderOf returns the credit store of mgr, or nil when credits are not configured.
func CreditReaderOf(mgr contract.StoreManager) contract.CreditReader {
	if mgr == nil {
		return nil
	}
	store := mgr.GetCreditStore()
	if store == nil {
		return nil
	}
	return store
}

// Dashboard renders the dashboard result for cfg.
func (s *Session) Dashboard(cfg *contract.Config) schema.DashboardResult {
	return BuildDashboard(s.Dataset, s.Aggregates, cfg)
}

// Students lists the students in scope of cfg.
func (s *Session) Students(ctx context.Context, cfg *contract.Config) ([]schema.StudentSummary, error) {
	return BuildStudentSummaries(ctx, s.Aggregates, NewStatsOptions(cfg, s.Catalog, s.Credits))
}

// StudentHistory returns the per-student view of name.
func (s *Session) StudentHistory(ctx context.Context, cfg *contract.Config, name string) (schema.StudentHistoryResult, error) {
	return BuildStudentHistory(ctx, s.Aggregates, name, NewStatsOptions(cfg, s.Catalog, s.Credits), cfg)
}

// Feedback returns the review text for name.
func (s *Session) Feedback(ctx context.Context, cfg *contract.Config, name string) (schema.FeedbackResult, error) {
	return BuildFeedback(ctx, s.Aggregates, name, cfg, s.Catalog, s.Credits)
}

// ExecuteDashboard loads the data and prints the dashboard cards.
// It serves as the main entry point for the 'dashboard' command.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) error {
	start := time.Now()
	session, err := NewSession(ctx, cfg, mgr, loader)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogDashboardHeader(cfg, session.Dataset)
	}
	result := session.Dashboard(cfg)
	return outwriter.PrintDashboardResults(result, cfg, time.Since(start))
}

// ExecuteStudents loads the data and prints the student list with statistics.
func ExecuteStudents(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) error {
	start := time.Now()
	session, err := NewSession(ctx, cfg, mgr, loader)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogDashboardHeader(cfg, session.Dataset)
	}
	students, err := session.Students(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintStudentSummaries(students, cfg, time.Since(start))
}

// ExecuteStudentHistory loads the data and prints one student's history view.
func ExecuteStudentHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader, name string) error {
	start := time.Now()
	session, err := NewSession(ctx, cfg, mgr, loader)
	if err != nil {
		return err
	}
	result, err := session.StudentHistory(ctx, cfg, name)
	if err != nil {
		return err
	}
	return outwriter.PrintStudentHistory(result, cfg, time.Since(start))
}

// ExecuteFeedback loads the data and prints the review text for one student.
func ExecuteFeedback(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader, name string) error {
	session, err := NewSession(ctx, cfg, mgr, loader)
	if err != nil {
		return err
	}
	result, err := session.Feedback(ctx, cfg, name)
	if err != nil {
		return err
	}
	return outwriter.PrintFeedback(result, cfg)
}

// ExecuteExport writes the dashboard rows and student statistics to Parquet files.
// The rows go to cfg.OutputFile and the statistics to a sibling "-students" file.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) error {
	session, err := NewSession(ctx, cfg, mgr, loader)
	if err != nil {
		return err
	}
	result := session.Dashboard(cfg)
	students, err := session.Students(ctx, cfg)
	if err != nil {
		return err
	}

	rowsPath, studentsPath := parquet.ExportPaths(cfg.OutputFile)
	if err := parquet.WriteDashboardRowsParquet(result.Rows, rowsPath); err != nil {
		return err
	}
	if err := parquet.WriteStudentStatsParquet(students, studentsPath); err != nil {
		return err
	}
	contract.LogInfo("💾 Exported %d row(s) to %s and %d student(s) to %s", len(result.Rows), rowsPath, len(students), studentsPath)
	return nil
}
