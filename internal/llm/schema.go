package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildPhrasesDocumentSchema describes the top-level answer. Only the shape of
// "phrases" is enforced; entries are checked one by one with the entry schema.
func BuildPhrasesDocumentSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phrases": map[string]any{"type": []string{"array", "null"}},
		},
	}
}

// BuildEntrySchema describes one learning entry.
func BuildEntrySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phrase":      map[string]any{"type": "string", "minLength": 1, "pattern": `\S`},
			"translation": map[string]any{"type": "string"},
			"explanation": map[string]any{"type": "string"},
			"example":     map[string]any{"type": "string"},
		},
		"required": []string{"phrase"},
	}
}

var (
	schemasOnce sync.Once
	docSchema   *jsonschema.Schema
	entrySchema *jsonschema.Schema
	schemasErr  error
)

func compiledSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		docSchema, schemasErr = CompileSchema("phrases.json", BuildPhrasesDocumentSchema())
		if schemasErr != nil {
			return
		}
		entrySchema, schemasErr = CompileSchema("entry.json", BuildEntrySchema())
	})
	return docSchema, entrySchema, schemasErr
}

// CompileSchema compiles a schema held as a generic map.
func CompileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
