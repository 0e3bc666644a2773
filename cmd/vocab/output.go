package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
)

// resultView is the printed shape of one pipeline result.
type resultView struct {
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Source     string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Backend    string                 `json:"backend" yaml:"backend"`
	Status     string                 `json:"status" yaml:"status"`
	Error      string                 `json:"error,omitempty" yaml:"error,omitempty"`
	ImageURL   string                 `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Vocabulary []entity.LearningEntry `json:"vocabulary" yaml:"vocabulary"`
	Phrases    []entity.LearningEntry `json:"phrases" yaml:"phrases"`
	ElapsedMS  int64                  `json:"elapsed_ms" yaml:"elapsed_ms"`
}

func viewOf(r pipeline.Result) resultView {
	v := resultView{
		RunID:      r.RunID,
		Source:     r.SourcePath,
		Backend:    r.Backend(),
		Status:     string(r.Outcome.Status),
		ImageURL:   r.ImageURL,
		Vocabulary: []entity.LearningEntry{},
		Phrases:    []entity.LearningEntry{},
		ElapsedMS:  r.Duration.Milliseconds(),
	}
	if r.Outcome.Err != nil {
		v.Error = r.Outcome.Err.Error()
	}
	if r.Classified != nil {
		v.Vocabulary = append(v.Vocabulary, r.Classified.Vocabulary...)
		v.Phrases = append(v.Phrases, r.Classified.Phrases...)
	}
	return v
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml)", format)
	}
}

func validFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "json", "yaml", "yml":
		return true
	}
	return false
}

func printResults(w io.Writer, format string, results []pipeline.Result) error {
	if strings.EqualFold(format, "text") {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printText(w, viewOf(r))
		}
		return nil
	}
	views := make([]resultView, 0, len(results))
	for _, r := range results {
		views = append(views, viewOf(r))
	}
	if len(views) == 1 {
		return encode(w, format, views[0])
	}
	return encode(w, format, views)
}

func printText(w io.Writer, v resultView) {
	header := v.Source
	if header == "" {
		header = "text"
	}
	fmt.Fprintf(w, "== %s [%s, %s]\n", header, v.Backend, v.Status)
	if v.Error != "" {
		fmt.Fprintf(w, "error: %s\n", v.Error)
	}
	if len(v.Vocabulary) == 0 && len(v.Phrases) == 0 {
		fmt.Fprintln(w, "no learning entries found")
		return
	}
	printSection(w, "Vocabulary", v.Vocabulary)
	printSection(w, "Phrases", v.Phrases)
}

func printSection(w io.Writer, title string, entries []entity.LearningEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(w, "  - %s", e.Phrase)
		if e.Translation != "" {
			fmt.Fprintf(w, " (%s)", e.Translation)
		}
		fmt.Fprintln(w)
		if e.Explanation != "" {
			fmt.Fprintf(w, "      %s\n", e.Explanation)
		}
		if e.Example != "" {
			fmt.Fprintf(w, "      e.g. %s\n", e.Example)
		}
	}
}

type dualView struct {
	Primary   resultView                `json:"primary" yaml:"primary"`
	Secondary resultView                `json:"secondary" yaml:"secondary"`
	Verdict   *entity.ComparisonVerdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

func printDual(w io.Writer, format string, d pipeline.DualResult) error {
	view := dualView{Primary: viewOf(d.Primary), Secondary: viewOf(d.Secondary), Verdict: d.Verdict}
	if !strings.EqualFold(format, "text") {
		return encode(w, format, view)
	}
	printText(w, view.Primary)
	fmt.Fprintln(w)
	printText(w, view.Secondary)
	if view.Verdict != nil {
		fmt.Fprintf(w, "\n== verdict (%s)\n%s\n", view.Verdict.Model, view.Verdict.Text)
	}
	return nil
}
