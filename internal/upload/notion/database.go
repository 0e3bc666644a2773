package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

const (
	propWord       = "Word"
	propChinese    = "Chinese"
	propDefinition = "Definition"
	propType       = "Type"
	propImageURL   = "Image URL"
)

// expectedProperties is every property buildPage writes, with its Notion type.
var expectedProperties = []struct {
	name     string
	kind     string
	required bool
}{
	{propWord, "title", true},
	{propChinese, "rich_text", true},
	{propDefinition, "rich_text", true},
	{propType, "select", true},
	{propImageURL, "url", false},
}

// DatabaseReport describes how well the target database fits the pages we create.
type DatabaseReport struct {
	Title           string            `json:"title"`
	MissingRequired []string          `json:"missing_required,omitempty"`
	MissingOptional []string          `json:"missing_optional,omitempty"`
	TypeMismatches  map[string]string `json:"type_mismatches,omitempty"`
	Extra           []string          `json:"extra,omitempty"`
}

// OK reports whether every page property can be written.
func (r DatabaseReport) OK() bool {
	return len(r.MissingRequired) == 0 && len(r.TypeMismatches) == 0
}

func (r DatabaseReport) String() string {
	if r.OK() && len(r.MissingOptional) == 0 {
		return fmt.Sprintf("database %q has all properties", r.Title)
	}
	var parts []string
	if len(r.MissingRequired) > 0 {
		parts = append(parts, "missing "+strings.Join(r.MissingRequired, ", "))
	}
	if len(r.MissingOptional) > 0 {
		parts = append(parts, "missing optional "+strings.Join(r.MissingOptional, ", "))
	}
	names := make([]string, 0, len(r.TypeMismatches))
	for n := range r.TypeMismatches {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s is %s", n, r.TypeMismatches[n]))
	}
	return fmt.Sprintf("database %q: %s", r.Title, strings.Join(parts, "; "))
}

type databaseResponse struct {
	Title []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

// CheckDatabase retrieves the configured database and compares its
// properties with the ones pages are written with. An HTTP or auth failure is
// an error; a structural gap is reported in the DatabaseReport.
func (c *Client) CheckDatabase(ctx context.Context) (DatabaseReport, error) {
	if c.cfg.Token == "" || c.cfg.DatabaseID == "" {
		return DatabaseReport{}, common.NewAppError("CONFIG_ERROR", "notion token and database id are required", common.ErrConfig)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/databases/"+c.cfg.DatabaseID, nil)
	if err != nil {
		return DatabaseReport{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", apiVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return DatabaseReport{}, common.Mark(fmt.Errorf("notion: %w", err), common.ErrUpload)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return DatabaseReport{}, common.Mark(fmt.Errorf("notion: database %s not found or not shared with the integration", c.cfg.DatabaseID), common.ErrNotFound)
	case resp.StatusCode/100 != 2:
		return DatabaseReport{}, common.Mark(fmt.Errorf("notion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), common.ErrUpload)
	}

	var db databaseResponse
	if err := json.Unmarshal(raw, &db); err != nil {
		return DatabaseReport{}, fmt.Errorf("decode database: %w", err)
	}
	rep := analyzeDatabase(db)
	c.logger.Info("notion.database.checked",
		"database_id", c.cfg.DatabaseID,
		"ok", rep.OK(),
		"missing_required", rep.MissingRequired,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rep, nil
}

func analyzeDatabase(db databaseResponse) DatabaseReport {
	var rep DatabaseReport
	for _, t := range db.Title {
		rep.Title += t.PlainText
	}
	known := make(map[string]bool, len(expectedProperties))
	for _, p := range expectedProperties {
		known[p.name] = true
		got, ok := db.Properties[p.name]
		switch {
		case !ok && p.required:
			rep.MissingRequired = append(rep.MissingRequired, p.name)
		case !ok:
			rep.MissingOptional = append(rep.MissingOptional, p.name)
		case got.Type != p.kind:
			if rep.TypeMismatches == nil {
				rep.TypeMismatches = map[string]string{}
			}
			rep.TypeMismatches[p.name] = fmt.Sprintf("%s, want %s", got.Type, p.kind)
		}
	}
	for name := range db.Properties {
		if !known[name] {
			rep.Extra = append(rep.Extra, name)
		}
	}
	sort.Strings(rep.Extra)
	return rep
}
