package generator

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonmodel/internal/analyzer"
	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

const todoWhereClause = "\n\t//TODO add whereClause\n"

// Statements is the SQL embedded in the generated persistence block, rendered with an empty
// value wherever the generated code concatenates a caller-supplied one.
type Statements struct {
	TableName   string
	CreateTable string
	// InsertColumns are the column names addObj writes, in field order.
	InsertColumns []string
	SelectAll     string
	// SelectFiltered is empty when no filter field was configured.
	SelectFiltered string
	// SelectByID is empty unless a master entity with an id field was requested.
	SelectByID string
	Count      string
	DeleteAll  string
}

// Persistence renders the table constants and storage methods for one class.
type Persistence struct {
	className string
	tableName string
	fields    []models.Field
	tmpl      Template
}

// NewPersistence assigns storage names to every field and prepares the emitter. At least one
// field is required to build the table definition.
func NewPersistence(className string, fields []models.Field, tmpl Template) (*Persistence, error) {
	if len(fields) == 0 {
		return nil, errors.ErrNoFields
	}
	return &Persistence{
		className: className,
		tableName: strings.ToLower(className),
		fields:    analyzer.WithStorageNames(fields),
		tmpl:      tmpl,
	}, nil
}

// Fields returns the fields with storage names assigned.
func (p *Persistence) Fields() []models.Field {
	out := make([]models.Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// SchemaDeclaration renders the KEY, TABLE_NAME and TABLE constants.
func (p *Persistence) SchemaDeclaration() string {
	return fmt.Sprintf("public static final String KEY = \"%sKey\";", p.className) +
		fmt.Sprintf("public static final String TABLE_NAME = \"%s\";", p.tableName) +
		"public static final String TABLE = \"create table \" + TABLE_NAME + \n" +
		p.columnDefinitions()
}

// columnDefinitions renders the parenthesised column list as one string literal per column.
func (p *Persistence) columnDefinitions() string {
	parts := make([]string, len(p.fields))
	last := len(p.fields) - 1
	for i, f := range p.fields {
		col := f.StorageName + " " + f.Type.ColumnType()
		if i == 0 {
			col = "(" + col
		}
		if i == last {
			col += ")"
		} else {
			col += ","
		}
		parts[i] = naming.Literal(col)
	}
	return strings.Join(parts, " + \n") + ";"
}

// CRUD renders the storage methods in their fixed order: addObj, getObj, getObjById (master),
// getList, getNameList (master), isEmpty and deleteTable.
func (p *Persistence) CRUD(isMasterEntity bool, idFieldKey, filterFieldKey string) string {
	methods := []string{
		p.addObjMethod(),
		p.getObjMethod(filterFieldKey),
	}
	if isMasterEntity {
		methods = append(methods, p.getObjByIDMethod(idFieldKey))
	}
	methods = append(methods, p.getListMethod())
	if isMasterEntity {
		methods = append(methods, p.getNameListMethod())
	}
	methods = append(methods, p.isEmptyMethod(), p.deleteTableMethod())

	return "\n//region Database\n" + strings.Join(methods, " ") + "\n\t//endregion\n\n"
}

// Statements returns the SQL the generated methods would run for the given options.
func (p *Persistence) Statements(opts models.Options) Statements {
	cols := make([]string, len(p.fields))
	defs := make([]string, len(p.fields))
	for i, f := range p.fields {
		cols[i] = f.StorageName
		defs[i] = f.StorageName + " " + f.Type.ColumnType()
	}

	selectAll := "select * from " + p.tableName
	s := Statements{
		TableName:     p.tableName,
		CreateTable:   "create table " + p.tableName + "(" + strings.Join(defs, ",") + ")",
		InsertColumns: cols,
		SelectAll:     selectAll,
		Count:         "select count(*) from " + p.tableName,
		DeleteAll:     "delete from " + p.tableName,
	}
	if col, _, ok := filterColumn(opts.FilterFieldKey); ok {
		s.SelectFiltered = selectAll + " where " + col + "='' COLLATE NOCASE"
	}
	if opts.IsMasterEntity && opts.IDFieldKey != "" {
		s.SelectByID = selectAll + " where " + analyzer.IDFieldName + "='' COLLATE NOCASE"
	}
	return s
}

func (p *Persistence) addObjMethod() string {
	var puts strings.Builder
	for _, f := range p.fields {
		puts.WriteString(fmt.Sprintf("values.put(%s, obj.%s);", naming.Literal(f.StorageName), f.Name))
	}
	body := "ContentValues values = new ContentValues();" + puts.String() +
		p.tmpl.DatabaseCall + ".insert(TABLE_NAME, \"\", values);"

	return fmt.Sprintf("public static void addObj(%s obj) { %s }", p.className, p.tmpl.guard("Exception", body, ""))
}

// getObjMethod filters on a Text field when filterFieldKey is set and otherwise returns the
// first row, marked for the caller to add a where clause.
func (p *Persistence) getObjMethod(filterFieldKey string) string {
	column, param, ok := filterColumn(filterFieldKey)
	if !ok {
		return p.fetchOneMethod("getObj", "", "", "")
	}
	return p.fetchOneMethod("getObj", column, param, models.Text.DisplayName()+" "+param)
}

// getObjByIDMethod always filters on the id column; the id key only decides whether a filter
// is emitted at all.
func (p *Persistence) getObjByIDMethod(idFieldKey string) string {
	if idFieldKey == "" {
		return p.fetchOneMethod("getObjById", "", "", "")
	}
	id := analyzer.IDFieldName
	return p.fetchOneMethod("getObjById", id, id, models.Text.DisplayName()+" "+id)
}

func (p *Persistence) fetchOneMethod(name, column, variable, param string) string {
	todo, where := todoWhereClause, ""
	if column != "" {
		todo = ""
		where = fmt.Sprintf(`+" where %s='" + %s+ "' COLLATE NOCASE"`, column, variable)
	}

	body := `String query = "select * from " + TABLE_NAME` + where + ";" +
		p.rawQuery() + "c.moveToFirst();" +
		"if (c.getCount() > 0) {" + p.rowMapping() + " } c.close(); "

	return fmt.Sprintf("public static %s %s(%s) { %s%s obj = new %s(); %s return obj; }",
		p.className, name, param, todo, p.className, p.className, p.tmpl.guard("Exception", body, ""))
}

func (p *Persistence) getListMethod() string {
	body := `String query = "select * from " + TABLE_NAME;` +
		p.rawQuery() + "c.moveToFirst();" +
		fmt.Sprintf("while (!c.isAfterLast()) {%s obj = new %s();", p.className, p.className) +
		p.rowMapping() + " list.add(obj); c.moveToNext(); }" +
		"c.close(); "

	return fmt.Sprintf("public static ArrayList<%s> getList() {ArrayList<%s> list = new ArrayList<>(); %s return list; }",
		p.className, p.className, p.tmpl.guard("Exception", body, ""))
}

func (p *Persistence) getNameListMethod() string {
	return fmt.Sprintf("public static ArrayList<String> getNameList(ArrayList<%s> list) {"+
		"ArrayList<String> nameList = new ArrayList<>(); for (%s obj : list) {"+
		"nameList.add(obj.%s);}return nameList;}", p.className, p.className, p.tmpl.DisplayField)
}

func (p *Persistence) isEmptyMethod() string {
	body := p.rawQuery() + "c.moveToFirst(); count = c.getInt(0); c.close();"
	return `public static boolean isEmpty() { String query = "select count(*) from " + TABLE_NAME;` +
		"int count; " + p.tmpl.guard("Exception", body, "count = 0; ") + " return count == 0; }"
}

func (p *Persistence) deleteTableMethod() string {
	body := p.tmpl.DatabaseCall + ".delete(TABLE_NAME, null, null);"
	return fmt.Sprintf("public static void deleteTable() { %s }", p.tmpl.guard("Exception", body, ""))
}

func (p *Persistence) rawQuery() string {
	return "Cursor c = " + p.tmpl.DatabaseCall + ".rawQuery(query, null);"
}

// rowMapping reads every column back into the instance. Booleans are stored as integers and
// recovered by comparing against zero.
func (p *Persistence) rowMapping() string {
	var buf strings.Builder
	for _, f := range p.fields {
		buf.WriteString(fmt.Sprintf("obj.%s = c.%s(c.getColumnIndex(%s))", f.Name, f.Type.CursorGetter(), naming.Literal(f.StorageName)))
		if f.Type == models.Boolean {
			buf.WriteString(" > 0")
		}
		buf.WriteString(";")
	}
	return buf.String()
}

// filterColumn resolves the column and variable name for a filter key. The filter field is
// always treated as Text.
func filterColumn(filterFieldKey string) (column, variable string, ok bool) {
	if filterFieldKey == "" {
		return "", "", false
	}
	variable = naming.ToFieldName(filterFieldKey)
	return naming.ToStorageName(variable), variable, true
}
