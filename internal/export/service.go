// Package export writes learning entries to XLSX workbooks.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
	"github.com/joseph-ayodele/screenshot-vocab/internal/repository"
)

const (
	SheetVocabulary = "Vocabulary"
	SheetPhrases    = "Phrases"
	maxCellRunes    = 300
)

var headers = []string{"Phrase", "Translation", "Explanation", "Example", "Source"}

// WriteWorkbook renders results into a workbook with one sheet per entry kind.
func WriteWorkbook(results []pipeline.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetVocabulary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetPhrases); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := map[string]int{SheetVocabulary: 2, SheetPhrases: 2}
	for _, sheet := range []string{SheetVocabulary, SheetPhrases} {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
		_ = f.SetCellStyle(sheet, "A1", "E1", bold)
	}

	write := func(sheet string, e entity.LearningEntry, source string) {
		row := rows[sheet]
		for i, v := range []string{e.Phrase, e.Translation, e.Explanation, e.Example, source} {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, truncate(v, maxCellRunes))
		}
		rows[sheet] = row + 1
	}
	for _, r := range results {
		if r.Classified == nil {
			continue
		}
		for _, e := range r.Classified.Vocabulary {
			write(SheetVocabulary, e, r.SourcePath)
		}
		for _, e := range r.Classified.Phrases {
			write(SheetPhrases, e, r.SourcePath)
		}
	}

	// Widen a few columns
	for _, sheet := range []string{SheetVocabulary, SheetPhrases} {
		_ = f.SetColWidth(sheet, "A", "A", 24) // phrase
		_ = f.SetColWidth(sheet, "B", "B", 20) // translation
		_ = f.SetColWidth(sheet, "C", "D", 48) // explanation, example
		_ = f.SetColWidth(sheet, "E", "E", 40) // source
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// ResultsFromNotes regroups stored notes into one result per source file,
// keeping the order in which sources first appear.
func ResultsFromNotes(notes []entity.Note) []pipeline.Result {
	var out []pipeline.Result
	index := map[string]int{}
	for _, n := range notes {
		i, ok := index[n.SourcePath]
		if !ok {
			i = len(out)
			index[n.SourcePath] = i
			out = append(out, pipeline.Result{
				RunID:      n.RunID.String(),
				SourcePath: n.SourcePath,
				ImageURL:   n.ImageURL,
				Classified: &entity.ClassifiedResult{},
			})
		}
		e := n.Entry()
		if e.Kind() == constants.KindVocabulary {
			out[i].Classified.Vocabulary = append(out[i].Classified.Vocabulary, e)
		} else {
			out[i].Classified.Phrases = append(out[i].Classified.Phrases, e)
		}
	}
	return out
}

// Service exports stored runs.
type Service struct {
	notes  repository.NotesRepository
	logger *slog.Logger
}

func NewService(notes repository.NotesRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{notes: notes, logger: logger}
}

// ExportRunXLSX returns the workbook for one stored run. uuid.Nil selects the latest run.
func (s *Service) ExportRunXLSX(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	start := time.Now()
	if runID == uuid.Nil {
		id, err := s.notes.LatestRunID(ctx)
		if err != nil {
			return nil, err
		}
		runID = id
	}
	notes, err := s.notes.ListByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	bs, err := WriteWorkbook(ResultsFromNotes(notes))
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"run_id", runID.String(),
		"rows", len(notes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return bs, nil
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
