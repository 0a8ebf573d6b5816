// Package analyzer infers field types from member lines and builds the ordered field list
package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// IDFieldName replaces the field name of the member matching the configured id key.
const IDFieldName = "id"

// keyRegex captures the first double-quoted substring on a line.
var keyRegex = regexp.MustCompile(`"([^"]*)"`)

// InferType classifies the literal part of a member line. The checks run in order and the
// first match wins, so a quoted number such as "3.14" is Text. No numeric validation is done.
func InferType(literal string) models.ValueType {
	switch {
	case strings.Contains(literal, `"`) || strings.Contains(literal, "null"):
		return models.Text
	case strings.Contains(literal, "true") || strings.Contains(literal, "false"):
		return models.Boolean
	case strings.Contains(literal, "."):
		return models.FloatingPoint
	default:
		return models.Integer
	}
}

// Builder turns member lines into the ordered field list and the accumulated parse body.
// A Builder serves a single generation run.
type Builder struct {
	idFieldKey string
	fields     []models.Field
	parseBody  strings.Builder
}

// NewBuilder creates a Builder. When idFieldKey is non-empty, the member with that key is
// named "id" regardless of its JSON key.
func NewBuilder(idFieldKey string) *Builder {
	return &Builder{
		idFieldKey: idFieldKey,
		fields:     make([]models.Field, 0),
	}
}

// ParseLines feeds lines in order until the first line containing the closing brace, which is
// not consumed. It returns the number of fields discovered.
func (b *Builder) ParseLines(lines []string) int {
	count := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "}") {
			break
		}
		if b.ParseLine(line) {
			count++
		}
	}
	return count
}

// ParseLine processes one member line. The opening brace line is skipped and reported as
// not accepted. Lines without a quoted key still produce a field with an empty name.
func (b *Builder) ParseLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "{" {
		return false
	}

	key := extractKey(line)
	field := models.Field{
		JSONKey: key,
		Name:    b.fieldName(key),
		Type:    InferType(literalOf(line)),
	}

	b.fields = append(b.fields, field)
	b.parseBody.WriteString(parseExpression(field))
	return true
}

// Fields returns the discovered fields in input order.
func (b *Builder) Fields() []models.Field {
	out := make([]models.Field, len(b.fields))
	copy(out, b.fields)
	return out
}

// ParseBody returns the accumulated parse statements, one per field, in input order.
func (b *Builder) ParseBody() string {
	return b.parseBody.String()
}

func (b *Builder) fieldName(key string) string {
	if b.idFieldKey != "" && key == b.idFieldKey {
		return IDFieldName
	}
	return naming.ToFieldName(key)
}

// WithStorageNames returns a copy of fields with every StorageName assigned. The input slice
// is left untouched.
func WithStorageNames(fields []models.Field) []models.Field {
	out := make([]models.Field, len(fields))
	for i, f := range fields {
		f.StorageName = naming.ToStorageName(f.Name)
		out[i] = f
	}
	return out
}

func extractKey(line string) string {
	m := keyRegex.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// literalOf returns everything from the first colon onwards, or "" if there is none.
func literalOf(line string) string {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx:])
}

// parseExpression renders the null-safe assignment for a field. Booleans short-circuit so the
// accessor is never reached for a missing value.
func parseExpression(f models.Field) string {
	quoted := naming.Literal(f.JSONKey)
	if f.Type == models.Boolean {
		return fmt.Sprintf("obj.%s = !jObj.isNull(%s) && jObj.getBoolean(%s);", f.Name, quoted, quoted)
	}

	var fallback, accessor string
	switch f.Type {
	case models.Text:
		fallback, accessor = `""`, "getString"
	case models.FloatingPoint:
		fallback, accessor = "0D", "getDouble"
	default:
		fallback, accessor = "0", "getInt"
	}
	return fmt.Sprintf("obj.%s = jObj.isNull(%s) ? %s : jObj.%s(%s);", f.Name, quoted, fallback, accessor, quoted)
}
