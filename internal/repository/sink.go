package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
)

// NotesSink publishes pipeline results into the notes store.
type NotesSink struct {
	Repo NotesRepository
}

func (s NotesSink) Name() string { return "store" }

func (s NotesSink) Publish(ctx context.Context, res pipeline.Result) error {
	runID, err := uuid.Parse(res.RunID)
	if err != nil {
		return fmt.Errorf("%w: run id %q: %w", common.ErrInvalidInput, res.RunID, err)
	}
	_, err = s.Repo.SaveResult(ctx, NoteBatch{
		RunID:      runID,
		SourcePath: res.SourcePath,
		ImageURL:   res.ImageURL,
		Backend:    res.Backend(),
		Entries:    res.Classified.All(),
	})
	return err
}
