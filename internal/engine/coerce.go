package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/store"
)

// coercePayload converts submitted form values to storable values,
// field by field. Unparseable foreign key and numeric values are
// dropped rather than rejected, matching the portal's historical
// behavior; every drop is logged so operators can see it happening.
// The returned map holds column name to value; the error map holds
// field-level validation messages.
func (e *Engine) coercePayload(ctx context.Context, table *schema.Table, payload map[string]any, forUpdate bool) (map[string]any, map[string]string) {
	values := make(map[string]any)
	fieldErrs := make(map[string]string)

	for _, f := range table.WritableFields() {
		raw, present := lookupValue(payload, &f)
		if !present {
			continue
		}

		if isEmpty(raw) {
			if f.Required() {
				fieldErrs[f.Name] = "This field is required."
			} else if storesEmptyString(&f) {
				values[f.Name] = ""
			}
			continue
		}

		switch {
		case f.IsFK():
			pk, ok := toInt(raw)
			if !ok {
				e.dropValue(table, &f, raw, "not an integer")
				continue
			}
			exists, err := e.targetExists(ctx, f.References, pk)
			if err != nil || !exists {
				e.dropValue(table, &f, raw, "referenced row not found")
				continue
			}
			values[f.Name] = pk

		case f.Kind == schema.KindBoolean:
			values[f.Name] = toBool(raw)

		case f.Kind == schema.KindInteger:
			n, ok := toInt(raw)
			if !ok {
				e.dropValue(table, &f, raw, "not an integer")
				continue
			}
			values[f.Name] = n

		case f.Kind == schema.KindDecimal:
			d, err := decimal.NewFromString(strings.TrimSpace(fmt.Sprint(raw)))
			if err != nil {
				e.dropValue(table, &f, raw, "not a decimal")
				continue
			}
			values[f.Name] = d.Round(int32(f.Scale)).StringFixed(int32(f.Scale))

		case f.Kind == schema.KindFloat:
			x, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(raw)), 64)
			if err != nil {
				e.dropValue(table, &f, raw, "not a number")
				continue
			}
			values[f.Name] = x

		default:
			s := fmt.Sprint(raw)
			if f.MaxLength > 0 && len(s) > f.MaxLength {
				fieldErrs[f.Name] = fmt.Sprintf("Ensure this value has at most %d characters.", f.MaxLength)
				continue
			}
			if len(f.Choices) > 0 && !contains(f.Choices, s) {
				fieldErrs[f.Name] = fmt.Sprintf("Value '%s' is not a valid choice.", s)
				continue
			}
			values[f.Name] = s
		}
	}

	if !forUpdate {
		for _, f := range table.WritableFields() {
			if _, ok := values[f.Name]; ok {
				continue
			}
			if f.Required() {
				if _, already := fieldErrs[f.Name]; !already {
					fieldErrs[f.Name] = "This field is required."
				}
				continue
			}
			if storesEmptyString(&f) {
				values[f.Name] = ""
			}
		}
	}

	return values, fieldErrs
}

// lookupValue finds a field's submitted value. Foreign keys answer to
// both their relation name and their raw column name.
func lookupValue(payload map[string]any, f *schema.Field) (any, bool) {
	if f.IsFK() {
		rel, relOK := payload[relationName(f.Name)]
		raw, rawOK := payload[f.Name]
		if relOK && rawOK {
			// Resolved rows carry the label under the relation name and
			// the pk under the column name; prefer the pk.
			if s, isStr := rel.(string); isStr && !looksNumeric(s) {
				return raw, true
			}
		}
		if relOK {
			return rel, true
		}
		return raw, rawOK
	}
	v, ok := payload[f.Name]
	return v, ok
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

func (e *Engine) targetExists(ctx context.Context, target string, pk int64) (bool, error) {
	table, err := e.registry.Describe(target)
	if err != nil {
		return false, err
	}
	pb := e.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s",
		table.Name, table.PrimaryKey, pb.Add(pk))
	n, err := store.Count(ctx, e.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (e *Engine) dropValue(table *schema.Table, f *schema.Field, raw any, reason string) {
	e.logger.Warn("dropping unparseable form value",
		zap.String("table", table.Name),
		zap.String("field", f.Name),
		zap.Any("value", raw),
		zap.String("reason", reason))
}

// storesEmptyString reports whether an omitted or empty value is
// stored as the empty string. Blank-accepting text columns are NOT
// NULL in the physical table, so the empty string is how they record
// "no value".
func storesEmptyString(f *schema.Field) bool {
	return f.Blank && !f.Nullable && f.Default == nil && f.IsTextual()
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "True" || val == "1"
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		return val == 1
	default:
		return false
	}
}

func toInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case float64:
		if val == float64(int64(val)) {
			return int64(val), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
