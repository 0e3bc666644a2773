package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const notesTable = "learning_notes"

var (
	noteColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "run_id", Type: field.TypeUUID},
		{Name: "kind", Type: field.TypeString, Size: 16},
		{Name: "phrase", Type: field.TypeString, Size: 2000},
		{Name: "translation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "example", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "source_path", Type: field.TypeString, Nullable: true},
		{Name: "backend", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	notesSchema = &schema.Table{
		Name:       notesTable,
		Columns:    noteColumns,
		PrimaryKey: []*schema.Column{noteColumns[0]},
		Indexes: []*schema.Index{
			{Name: "learningnote_run_id", Columns: []*schema.Column{noteColumns[1]}},
		},
	}
)

// Migrate creates the notes table and its index when missing.
func (d *DB) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(d.Driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Create(ctx, notesSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
