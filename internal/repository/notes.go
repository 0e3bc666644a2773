package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// NoteBatch is every entry one pipeline run produced for one source.
type NoteBatch struct {
	RunID      uuid.UUID
	SourcePath string
	ImageURL   string
	Backend    string
	Entries    []entity.LearningEntry
}

// NotesRepository stores learning notes. The pipeline only writes to it;
// reads exist for export and health checks.
type NotesRepository interface {
	SaveResult(ctx context.Context, batch NoteBatch) (int, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.Note, error)
	LatestRunID(ctx context.Context) (uuid.UUID, error)
	HealthCheck(ctx context.Context) error
}

type notesRepo struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewNotesRepository(db *DB, logger *slog.Logger) NotesRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &notesRepo{db: db, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

var selectColumns = []string{
	"id", "run_id", "kind", "phrase", "translation", "explanation", "example",
	"image_url", "source_path", "backend", "created_at",
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SaveResult inserts every entry of the batch in one transaction.
func (r *notesRepo) SaveResult(ctx context.Context, batch NoteBatch) (int, error) {
	if batch.RunID == uuid.Nil {
		return 0, fmt.Errorf("%w: run id is required", common.ErrInvalidInput)
	}
	if len(batch.Entries) == 0 {
		return 0, nil
	}

	ins := entsql.Dialect(r.db.Dialect).Insert(notesTable).Columns(selectColumns...)
	created := r.now()
	for _, e := range batch.Entries {
		if e.Phrase == "" {
			return 0, fmt.Errorf("%w: entry without phrase", common.ErrInvalidInput)
		}
		ins.Values(
			uuid.New(), batch.RunID, string(e.Kind()), e.Phrase, e.Translation, e.Explanation, e.Example,
			nullable(batch.ImageURL), nullable(batch.SourcePath), nullable(batch.Backend), created,
		)
	}
	query, args := ins.Query()

	tx, err := r.db.Driver.Tx(ctx)
	if err != nil {
		return 0, common.Mark(fmt.Errorf("begin tx: %w", err), common.ErrDatabase)
	}
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		_ = tx.Rollback()
		r.logger.Error("repository.notes.save_failed", "run_id", batch.RunID, "error", err)
		return 0, common.Mark(fmt.Errorf("insert notes: %w", err), common.ErrDatabase)
	}
	if err := tx.Commit(); err != nil {
		return 0, common.Mark(fmt.Errorf("commit: %w", err), common.ErrDatabase)
	}
	r.logger.Info("repository.notes.saved", "run_id", batch.RunID, "count", len(batch.Entries))
	return len(batch.Entries), nil
}

func (r *notesRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.Note, error) {
	query, args := entsql.Dialect(r.db.Dialect).
		Select(selectColumns...).
		From(entsql.Table(notesTable)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("created_at", "kind", "phrase").
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return nil, common.Mark(fmt.Errorf("list notes: %w", err), common.ErrDatabase)
	}
	defer rows.Close()

	var out []entity.Note
	for rows.Next() {
		var (
			n                         entity.Note
			imageURL, source, backend *string
		)
		if err := rows.Scan(&n.ID, &n.RunID, &n.Kind, &n.Phrase, &n.Translation, &n.Explanation, &n.Example,
			&imageURL, &source, &backend, &n.CreatedAt); err != nil {
			return nil, common.Mark(fmt.Errorf("scan note: %w", err), common.ErrDatabase)
		}
		n.ImageURL = deref(imageURL)
		n.SourcePath = deref(source)
		n.Backend = deref(backend)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Mark(err, common.ErrDatabase)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, runID)
	}
	return out, nil
}

// LatestRunID returns the run of the most recently stored note.
func (r *notesRepo) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	query, args := entsql.Dialect(r.db.Dialect).
		Select("run_id").
		From(entsql.Table(notesTable)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return uuid.Nil, common.Mark(fmt.Errorf("latest run: %w", err), common.ErrDatabase)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return uuid.Nil, common.Mark(err, common.ErrDatabase)
		}
		return uuid.Nil, fmt.Errorf("%w: notes store is empty", common.ErrNotFound)
	}
	var id uuid.UUID
	if err := rows.Scan(&id); err != nil {
		return uuid.Nil, common.Mark(err, common.ErrDatabase)
	}
	return id, nil
}

func (r *notesRepo) HealthCheck(ctx context.Context) error {
	if err := r.db.HealthCheck(ctx, 2*time.Second); err != nil {
		r.logger.Error("repository.health.failed", "error", err)
		return common.Mark(err, common.ErrDatabase)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
