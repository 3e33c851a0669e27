package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/configs"
	"mediatracker/kinopoisk/internal/repository"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"

	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "kinopoisk-repository-mysql"

// Repository defines a MySQL-based import run repository.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a new MySQL-based import run repository.
func New(config configs.MysqlConfig, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mysql"),
	)
	logger.Info("Connecting to mysql", zap.String("host", config.Host), zap.Int(logging.FieldPort, config.Port))
	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", config.User, config.Pass, config.Host, config.Port, config.Name))
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, logger), nil
}

// NewWithDB creates a repository on top of an open database handle.
func NewWithDB(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Put stores an import run.
func (r *Repository) Put(ctx context.Context, run *model.ImportRun) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Put")
	defer span.End()
	if run == nil {
		return errors.New("import run is nil")
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO import_runs
		(id, user_id, kinopoisk_user_id, status, stop_reason, pages_fetched, total_imported, total_converted, total_failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, run.SourceUserID, run.Status, run.StopReason, run.PagesFetched,
		run.TotalImported, run.TotalConverted, run.TotalFailed, run.StartedAt, run.FinishedAt)
	if err != nil {
		r.logger.Warn("Failed to put import run to MySQL", zap.String("runId", run.ID), zap.Error(err))
	}
	return err
}

// ListByUser returns the import runs of a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.ImportRun, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListByUser")
	defer span.End()
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, kinopoisk_user_id, status, stop_reason, pages_fetched,
		total_imported, total_converted, total_failed, started_at, finished_at
		FROM import_runs WHERE user_id = ? ORDER BY started_at DESC`, userID)
	if err != nil {
		r.logger.Warn("Failed to get import runs from MySQL", zap.String(logging.FieldUserID, userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	var res []model.ImportRun
	for rows.Next() {
		var run model.ImportRun
		var status, stopReason string
		if err := rows.Scan(&run.ID, &run.UserID, &run.SourceUserID, &status, &stopReason, &run.PagesFetched,
			&run.TotalImported, &run.TotalConverted, &run.TotalFailed, &run.StartedAt, &run.FinishedAt); err != nil {
			r.logger.Warn("Failed to scan import run", zap.String(logging.FieldUserID, userID), zap.Error(err))
			return nil, err
		}
		run.Status = model.ImportStatus(status)
		run.StopReason = model.StopReason(stopReason)
		res = append(res, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, repository.ErrNotFound
	}
	return res, nil
}
