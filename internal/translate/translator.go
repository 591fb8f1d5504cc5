// Package translate maps column metadata to schema-builder declarations.
package translate

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/tordrt/dbtomodel/internal/schema"
)

// Special column names
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	DeletedAt = "deleted_at"
)

// Translator turns columns of one dialect into declarations
type Translator struct {
	dialect schema.Dialect
	types   map[string]string
	logger  *slog.Logger
}

// New creates a translator for a dialect. A nil logger uses slog.Default().
func New(dialect schema.Dialect, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		dialect: dialect,
		types:   typeTable(dialect),
		logger:  logger,
	}
}

// rawType is a raw column type split into its parts
type rawType struct {
	base     string
	args     []string
	unsigned bool
}

var qualifiers = map[string]bool{
	"unsigned": true,
	"signed":   true,
	"zerofill": true,
	"identity": true,
}

// parseRawType splits "decimal(10,2) unsigned" into base, arguments and flags
func parseRawType(raw string) rawType {
	v := strings.ToLower(strings.TrimSpace(raw))

	var rt rawType
	if open := strings.Index(v, "("); open >= 0 {
		if end := strings.LastIndex(v, ")"); end > open {
			rt.args = splitArgs(v[open+1 : end])
			v = v[:open] + " " + v[end+1:]
		}
	}

	var words []string
	for _, w := range strings.Fields(v) {
		if qualifiers[w] {
			rt.unsigned = rt.unsigned || w == "unsigned"
			continue
		}
		words = append(words, w)
	}
	rt.base = strings.Join(words, " ")
	return rt
}

var quotedValue = regexp.MustCompile(`'((?:[^']|'')*)'`)

// splitArgs splits type arguments on commas outside quotes
func splitArgs(s string) []string {
	if strings.Contains(s, "'") {
		var values []string
		for _, m := range quotedValue.FindAllStringSubmatch(s, -1) {
			values = append(values, strings.ReplaceAll(m[1], "''", "'"))
		}
		return values
	}

	var args []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	return args
}

// TargetType returns the column method for a raw type and whether the type was recognized
func (t *Translator) TargetType(raw string) (string, bool) {
	method, ok := t.types[parseRawType(raw).base]
	if !ok {
		return String, false
	}
	return method, true
}

// Translate declares an ordinary column
func (t *Translator) Translate(table string, col schema.Column) schema.Declaration {
	rt := parseRawType(col.Type)

	method, ok := t.types[rt.base]
	if !ok {
		t.logger.Debug("unrecognized column type, using string", "table", table, "column", col.Name, "type", col.Type)
		method = String
	}

	decl := schema.Declaration{
		Method: method,
		Column: col.Name,
		Args:   typeArgs(method, rt),
	}

	shorthand, hasShorthand := increments[method]
	autoKey := col.IsPrimaryKey && col.IsAutoIncrement
	if autoKey && hasShorthand {
		decl.Method = shorthand
		decl.Args = nil
	}

	if rt.unsigned && !(autoKey && hasShorthand) {
		decl.Modifiers = append(decl.Modifiers, schema.Modifier{Name: "unsigned"})
	}
	if col.Nullable {
		decl.Modifiers = append(decl.Modifiers, schema.Modifier{Name: "nullable"})
	}
	if col.DefaultValue != nil && !col.IsAutoIncrement {
		decl.Modifiers = append(decl.Modifiers, DefaultModifier(*col.DefaultValue))
	}

	switch {
	case autoKey && !hasShorthand:
		decl.Modifiers = append(decl.Modifiers, schema.Modifier{Name: "autoIncrement"}, schema.Modifier{Name: "primary"})
	case col.IsPrimaryKey && !col.IsAutoIncrement:
		decl.Modifiers = append(decl.Modifiers, schema.Modifier{Name: "primary"})
	}

	if col.IsUnique {
		decl.Modifiers = append(decl.Modifiers, schema.Modifier{Name: "unique"})
	}
	return decl
}

// typeArgs keeps the arguments meaningful for the chosen method
func typeArgs(method string, rt rawType) []string {
	switch method {
	case String, Char:
		if len(rt.args) == 1 && isNumber(rt.args[0]) {
			return rt.args[:1]
		}
	case Decimal:
		var args []string
		for _, a := range rt.args {
			if !isNumber(a) {
				return nil
			}
			args = append(args, a)
		}
		if len(args) > 2 {
			args = args[:2]
		}
		return args
	case Enum:
		if len(rt.args) == 0 {
			return nil
		}
		quoted := make([]string, 0, len(rt.args))
		for _, v := range rt.args {
			quoted = append(quoted, Quote(v))
		}
		return []string{"[" + strings.Join(quoted, ", ") + "]"}
	}
	return nil
}

var number = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

func isNumber(s string) bool {
	return number.MatchString(s)
}

// DefaultModifier renders a normalized default as a default or useCurrent modifier
func DefaultModifier(value string) schema.Modifier {
	switch lower := strings.ToLower(value); {
	case isNumber(value):
		return schema.Modifier{Name: "default", Args: []string{value}}
	case lower == "null":
		return schema.Modifier{Name: "default", Args: []string{"null"}}
	case lower == "true", lower == "false":
		return schema.Modifier{Name: "default", Args: []string{lower}}
	case lower == "current_timestamp", lower == "current_timestamp()":
		return schema.Modifier{Name: "useCurrent"}
	default:
		return schema.Modifier{Name: "default", Args: []string{Quote(value)}}
	}
}

var phpEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote renders a single-quoted string literal
func Quote(s string) string {
	return "'" + phpEscaper.Replace(s) + "'"
}

// Declarations declares columns in order. deleted_at becomes a single
// softDeletes call; created_at and updated_at become a single timestamps
// call at the position of the first of them, but only when withTimestamps is set.
func (t *Translator) Declarations(table string, cols []schema.Column, withTimestamps bool) []schema.Declaration {
	decls := make([]schema.Declaration, 0, len(cols))
	timestamps := false

	for _, col := range cols {
		switch {
		case col.Name == DeletedAt:
			decls = append(decls, schema.Declaration{Method: SoftDeletes})
		case withTimestamps && (col.Name == CreatedAt || col.Name == UpdatedAt):
			if !timestamps {
				decls = append(decls, schema.Declaration{Method: Timestamps})
				timestamps = true
			}
		default:
			decls = append(decls, t.Translate(table, col))
		}
	}
	return decls
}

// HasTimestamps reports whether both created_at and updated_at are present
func HasTimestamps(names []string) bool {
	var created, updated bool
	for _, n := range names {
		created = created || n == CreatedAt
		updated = updated || n == UpdatedAt
	}
	return created && updated
}
