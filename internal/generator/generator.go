// Package generator assembles the data class source from a field list
package generator

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/analyzer"
	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// Template holds the collaborators the generated class calls into.
type Template struct {
	// LoggerCall receives (TAG, exception) from every failure boundary.
	LoggerCall string
	// DatabaseCall returns the database handle used by the persistence methods.
	DatabaseCall string
	// DisplayField is the member getNameList maps each instance to.
	DisplayField string
}

// DefaultTemplate returns the collaborators used when nothing is configured.
func DefaultTemplate() Template {
	return Template{
		LoggerCall:   "Debug.error",
		DatabaseCall: "StorageManager.getDb()",
		DisplayField: "description",
	}
}

// Result is the outcome of one generation run.
type Result struct {
	Code string
	// Fields in input order. Storage names are set only when persistence was requested.
	Fields []models.Field
	// Statements is nil unless persistence was requested.
	Statements *Statements
}

// Generator assembles the class source from member lines
type Generator struct {
	tmpl Template
}

// NewGenerator creates a Generator with the default template.
func NewGenerator() *Generator {
	return &Generator{tmpl: DefaultTemplate()}
}

// NewGeneratorWithTemplate creates a Generator with custom collaborators. Empty entries fall
// back to the defaults.
func NewGeneratorWithTemplate(tmpl Template) *Generator {
	def := DefaultTemplate()
	if tmpl.LoggerCall == "" {
		tmpl.LoggerCall = def.LoggerCall
	}
	if tmpl.DatabaseCall == "" {
		tmpl.DatabaseCall = def.DatabaseCall
	}
	if tmpl.DisplayField == "" {
		tmpl.DisplayField = def.DisplayField
	}
	return &Generator{tmpl: tmpl}
}

// Generate runs the member lines through the field builder and assembles the class.
func (g *Generator) Generate(req models.Request) (*Result, error) {
	b := analyzer.NewBuilder(req.Options.IDFieldKey)
	b.ParseLines(req.Lines)
	return g.Assemble(req.ClassName, b.Fields(), b.ParseBody(), req.Options)
}

// Assemble concatenates the class header, schema constants, declarations, the fromJson
// routine and the persistence block into one document.
func (g *Generator) Assemble(className string, fields []models.Field, parseBody string, opts models.Options) (*Result, error) {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil, errors.ErrMissingClassName
	}

	result := &Result{Fields: fields}
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("public class %s {\n", className))
	buf.WriteString(fmt.Sprintf("private static final String TAG = %s;\n", naming.Literal(className)))

	var persistence *Persistence
	if opts.EmitPersistence {
		var err error
		persistence, err = NewPersistence(className, fields, g.tmpl)
		if err != nil {
			return nil, err
		}
		result.Fields = persistence.Fields()
		stmts := persistence.Statements(opts)
		result.Statements = &stmts

		buf.WriteString(persistence.SchemaDeclaration())
		buf.WriteString("\n")
	}

	buf.WriteString(Declarations(fields))
	buf.WriteString("\n\n")
	buf.WriteString(g.FromJSONMethod(className, parseBody))

	if persistence != nil {
		buf.WriteString(persistence.CRUD(opts.IsMasterEntity, opts.IDFieldKey, opts.FilterFieldKey))
	}

	buf.WriteString("\n}\n")
	result.Code = buf.String()
	return result, nil
}

// Declarations renders one public field declaration per field, in order.
func Declarations(fields []models.Field) string {
	var buf strings.Builder
	for _, f := range fields {
		buf.WriteString(fmt.Sprintf("public %s %s;", f.Type.DisplayName(), f.Name))
	}
	return buf.String()
}

// FromJSONMethod renders the deserialization routine. Parse failures are logged and the
// partially populated instance is still returned.
func (g *Generator) FromJSONMethod(className, parseBody string) string {
	return fmt.Sprintf("public static %s fromJson(JSONObject jObj) { %s obj = new %s(); %s return obj;} ",
		className, className, className, g.tmpl.guard("JSONException", parseBody, ""))
}

// guard wraps body in a failure boundary for exceptionClass. onFailure runs before the
// failure is logged and is where the safe default gets assigned.
func (t Template) guard(exceptionClass, body, onFailure string) string {
	return fmt.Sprintf("try { %s} catch (%s e) { %s%s(TAG, e); }", body, exceptionClass, onFailure, t.LoggerCall)
}
