package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// excludedFormFields are never offered on forms: synthetic keys and
// audit columns maintained elsewhere.
var excludedFormFields = map[string]bool{
	"id":            true,
	"pk":            true,
	"created_at":    true,
	"updated_at":    true,
	"date_created":  true,
	"date_modified": true,
	"timestamp":     true,
	"last_modified": true,
	"created":       true,
	"modified":      true,
}

// FormField is the metadata a client needs to render one form control.
type FormField struct {
	Name       string     `json:"name"`
	Label      string     `json:"label"`
	Control    string     `json:"control"`
	Required   bool       `json:"required"`
	Help       string     `json:"help,omitempty"`
	MaxLength  int        `json:"max_length,omitempty"`
	Step       string     `json:"step,omitempty"`
	Precision  int        `json:"precision,omitempty"`
	Scale      int        `json:"scale,omitempty"`
	Default    any        `json:"default,omitempty"`
	Choices    []string   `json:"choices,omitempty"`
	Options    []FKOption `json:"options,omitempty"`
	EmptyLabel string     `json:"empty_label,omitempty"`
}

// FKOption is one selectable foreign key target.
type FKOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// FormFields returns the form metadata for a section's table. Auto
// primary keys, audit columns and raw foreign key columns are omitted;
// foreign keys appear under their relation name as selects.
func (e *Engine) FormFields(ctx context.Context, section *pageconfig.Section) ([]FormField, string, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, "", SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}

	fields := make([]FormField, 0, len(table.Fields))
	for i := range table.Fields {
		f := &table.Fields[i]
		if f.IsAuto() || excludedFormFields[strings.ToLower(f.Name)] {
			continue
		}

		if f.IsFK() {
			fields = append(fields, e.fkFormField(ctx, f))
			continue
		}

		field := FormField{
			Name:      f.Name,
			Label:     f.DisplayLabel(),
			Control:   controlFor(f),
			Required:  f.Required(),
			MaxLength: f.MaxLength,
			Default:   f.Default,
			Choices:   f.Choices,
		}
		if f.Kind == schema.KindDecimal {
			field.Step = decimalStep(f.Scale)
			field.Precision = f.Precision
			field.Scale = f.Scale
		}
		fields = append(fields, field)
	}

	return fields, modelName(table), nil
}

func (e *Engine) fkFormField(ctx context.Context, f *schema.Field) FormField {
	label := f.DisplayLabel()
	options := e.fkOptions(ctx, f.References)
	return FormField{
		Name:       relationName(f.Name),
		Label:      label,
		Control:    "select",
		Required:   f.Required(),
		Options:    options,
		EmptyLabel: "Select " + label,
	}
}

// FKOptions returns the option list for one foreign key of a section,
// addressed by relation name or raw column name.
func (e *Engine) FKOptions(ctx context.Context, section *pageconfig.Section, fieldName string) ([]FKOption, string, *AppError) {
	table, err := e.registry.Describe(section.Table)
	if err != nil {
		return nil, "", SchemaError(fmt.Sprintf("table %s not found", section.Table))
	}

	for i := range table.Fields {
		f := &table.Fields[i]
		if !f.IsFK() {
			continue
		}
		if f.Name == fieldName || relationName(f.Name) == fieldName {
			return e.fkOptions(ctx, f.References), "Select " + f.DisplayLabel(), nil
		}
	}
	return nil, "", NotFoundError("field", fieldName)
}

// fkOptions lists the first rows of the target table as value/label
// pairs. A lookup failure yields an empty list, matching the loader's
// tolerance for broken sections.
func (e *Engine) fkOptions(ctx context.Context, target string) []FKOption {
	table, err := e.registry.Describe(target)
	if err != nil {
		return []FKOption{}
	}

	pb := e.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT %s",
		table.PrimaryKey, table.Name, table.PrimaryKey, pb.Add(e.cfg.FKOptionLimit))
	rows, err := store.QueryRows(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		e.logger.Warn("foreign key option query failed",
			zap.String("table", target), zap.Error(err))
		return []FKOption{}
	}

	pks := make([]any, 0, len(rows))
	for _, row := range rows {
		if v := row[table.PrimaryKey]; v != nil {
			pks = append(pks, v)
		}
	}
	labels := e.resolver.ResolveBulk(ctx, target, pks)

	options := make([]FKOption, 0, len(pks))
	for _, pk := range pks {
		options = append(options, FKOption{Value: pk, Label: labels[fmt.Sprint(pk)]})
	}
	return options
}

func controlFor(f *schema.Field) string {
	if len(f.Choices) > 0 {
		return "select"
	}
	switch f.Kind {
	case schema.KindText:
		return "textarea"
	case "email":
		return "email"
	case "url":
		return "url"
	case schema.KindInteger, schema.KindDecimal, schema.KindFloat:
		return "number"
	case schema.KindBoolean:
		return "checkbox"
	case schema.KindDate:
		return "date"
	case schema.KindDateTime:
		return "datetime-local"
	case schema.KindTime:
		return "time"
	default:
		return "text"
	}
}

// decimalStep renders the HTML number-input step for a scale, e.g.
// scale 2 gives "0.01".
func decimalStep(scale int) string {
	if scale <= 0 {
		return "1"
	}
	return "0." + strings.Repeat("0", scale-1) + "1"
}

// modelName renders a table name in the CamelCase form clients show in
// form titles.
func modelName(table *schema.Table) string {
	return strings.ReplaceAll(schema.Humanize(table.Name), " ", "")
}
