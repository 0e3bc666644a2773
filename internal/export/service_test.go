package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
	"github.com/joseph-ayodele/screenshot-vocab/internal/repository"
)

func openWorkbook(t *testing.T, bs []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(bs))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteWorkbook(t *testing.T) {
	long := strings.Repeat("字", 400)
	results := []pipeline.Result{
		{
			SourcePath: "a.png",
			Classified: &entity.ClassifiedResult{
				Vocabulary: []entity.LearningEntry{{Phrase: "warrants", Translation: "保證", Explanation: long}},
				Phrases:    []entity.LearningEntry{{Phrase: "prior to", Example: "I had never traveled abroad prior to this trip."}},
			},
		},
		{SourcePath: "empty.png"},
		{
			SourcePath: "b.png",
			Classified: &entity.ClassifiedResult{Vocabulary: []entity.LearningEntry{{Phrase: "sparse"}}},
		},
	}

	bs, err := WriteWorkbook(results)
	require.NoError(t, err)
	f := openWorkbook(t, bs)

	assert.Equal(t, []string{SheetVocabulary, SheetPhrases}, f.GetSheetList())

	vocab, err := f.GetRows(SheetVocabulary)
	require.NoError(t, err)
	require.Len(t, vocab, 3)
	assert.Equal(t, []string{"Phrase", "Translation", "Explanation", "Example", "Source"}, vocab[0])
	assert.Equal(t, "warrants", vocab[1][0])
	assert.Equal(t, "a.png", vocab[1][4])
	assert.Equal(t, maxCellRunes, len([]rune(vocab[1][2])))
	assert.Equal(t, "sparse", vocab[2][0])
	assert.Equal(t, "b.png", vocab[2][4])

	phr, err := f.GetRows(SheetPhrases)
	require.NoError(t, err)
	require.Len(t, phr, 2)
	assert.Equal(t, "prior to", phr[1][0])
}

func TestWriteWorkbook_Empty(t *testing.T) {
	bs, err := WriteWorkbook(nil)
	require.NoError(t, err)
	rows, err := openWorkbook(t, bs).GetRows(SheetPhrases)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResultsFromNotes(t *testing.T) {
	run := uuid.New()
	notes := []entity.Note{
		{RunID: run, Phrase: "prior to", SourcePath: "a.png"},
		{RunID: run, Phrase: "sparse", SourcePath: "b.png"},
		{RunID: run, Phrase: "warrants", SourcePath: "a.png", ImageURL: "https://i.imgur.com/a.png"},
	}
	got := ResultsFromNotes(notes)
	require.Len(t, got, 2)
	assert.Equal(t, "a.png", got[0].SourcePath)
	assert.Equal(t, "prior to", got[0].Classified.Phrases[0].Phrase)
	assert.Equal(t, "warrants", got[0].Classified.Vocabulary[0].Phrase)
	assert.Equal(t, "b.png", got[1].SourcePath)
	assert.Equal(t, run.String(), got[1].RunID)
}

type fakeNotes struct {
	repository.NotesRepository
	latest uuid.UUID
	notes  map[uuid.UUID][]entity.Note
}

func (f fakeNotes) LatestRunID(context.Context) (uuid.UUID, error) {
	if f.latest == uuid.Nil {
		return uuid.Nil, common.ErrNotFound
	}
	return f.latest, nil
}

func (f fakeNotes) ListByRun(_ context.Context, id uuid.UUID) ([]entity.Note, error) {
	ns, ok := f.notes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return ns, nil
}

func TestService_ExportRunXLSX(t *testing.T) {
	run := uuid.New()
	svc := NewService(fakeNotes{latest: run, notes: map[uuid.UUID][]entity.Note{
		run: {{RunID: run, Phrase: "sparse", SourcePath: "a.png"}},
	}}, nil)

	bs, err := svc.ExportRunXLSX(context.Background(), uuid.Nil)
	require.NoError(t, err)
	rows, err := openWorkbook(t, bs).GetRows(SheetVocabulary)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sparse", rows[1][0])

	_, err = svc.ExportRunXLSX(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = NewService(fakeNotes{}, nil).ExportRunXLSX(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
