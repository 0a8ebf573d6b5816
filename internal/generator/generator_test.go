package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemLines = []string{
	"{",
	`"Name" : "Chair",`,
	`"Price" : 19.99`,
	"}",
}

func TestGenerate_WithoutPersistence(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{
		ClassName: "Item",
		Lines:     itemLines,
	})
	require.NoError(t, err)

	expected := "public class Item {\n" +
		"private static final String TAG = \"Item\";\n" +
		"public String name;public Double price;\n\n" +
		"public static Item fromJson(JSONObject jObj) { Item obj = new Item(); try { " +
		`obj.name = jObj.isNull("Name") ? "" : jObj.getString("Name");` +
		`obj.price = jObj.isNull("Price") ? 0D : jObj.getDouble("Price");` +
		"} catch (JSONException e) { Debug.error(TAG, e); } return obj;} \n}\n"

	if diff := cmp.Diff(expected, result.Code); diff != "" {
		t.Errorf("generated class mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, result.Statements)
	assert.NotContains(t, result.Code, "TABLE_NAME")
	assert.NotContains(t, result.Code, "//region Database")
}

func TestGenerate_MasterEntityWithIDField(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{
		ClassName: "Item",
		Lines:     itemLines,
		Options: models.Options{
			EmitPersistence: true,
			IsMasterEntity:  true,
			IDFieldKey:      "Name",
		},
	})
	require.NoError(t, err)
	code := result.Code

	assert.Contains(t, code, "public String id;public Double price;")
	assert.NotContains(t, code, "public String name;")
	assert.Contains(t, code, `obj.id = jObj.isNull("Name") ? "" : jObj.getString("Name");`)

	assert.Contains(t, code, `public static final String KEY = "ItemKey";`)
	assert.Contains(t, code, `public static final String TABLE_NAME = "item";`)
	assert.Contains(t, code, "\"(id text,\" + \n\"price float)\";")

	assert.Contains(t, code, "public static Item getObjById(String id) {")
	assert.Contains(t, code, `+" where id='" + id+ "' COLLATE NOCASE"`)
	assert.Contains(t, code, "public static ArrayList<String> getNameList(ArrayList<Item> list) {")

	require.NotNil(t, result.Statements)
	assert.Equal(t, "create table item(id text,price float)", result.Statements.CreateTable)
	assert.Equal(t, "select * from item where id='' COLLATE NOCASE", result.Statements.SelectByID)
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "id", result.Fields[0].StorageName)
	assert.Equal(t, "price", result.Fields[1].StorageName)
}

func TestGenerate_FilterField(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{
		ClassName: "Item",
		Lines:     itemLines,
		Options: models.Options{
			EmitPersistence: true,
			FilterFieldKey:  "Name",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, result.Code, "public static Item getObj(String name) { Item obj = new Item();")
	assert.Contains(t, result.Code, `String query = "select * from " + TABLE_NAME+" where name='" + name+ "' COLLATE NOCASE";`)
	assert.NotContains(t, result.Code, "//TODO add whereClause")
	assert.NotContains(t, result.Code, "getObjById")
	assert.NotContains(t, result.Code, "getNameList")
	assert.Equal(t, "select * from item where name='' COLLATE NOCASE", result.Statements.SelectFiltered)
}

func TestGenerate_SectionOrder(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{
		ClassName: "Item",
		Lines:     itemLines,
		Options:   models.Options{EmitPersistence: true, IsMasterEntity: true, IDFieldKey: "Name"},
	})
	require.NoError(t, err)

	markers := []string{
		"public class Item {",
		"String TAG",
		"String KEY",
		"public String id;",
		"fromJson(",
		"//region Database",
		"void addObj(",
		"Item getObj(",
		"Item getObjById(",
		"getList()",
		"getNameList(",
		"boolean isEmpty()",
		"void deleteTable()",
		"//endregion",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(result.Code, m)
		require.NotEqual(t, -1, idx, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
	assert.True(t, strings.HasSuffix(result.Code, "}\n"))
}

func TestGenerate_BooleanRoundTrip(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{
		ClassName: "Flag",
		Lines:     []string{"{", `"IsActive" : false`, "}"},
		Options:   models.Options{EmitPersistence: true},
	})
	require.NoError(t, err)

	assert.Contains(t, result.Code, "public Boolean isActive;")
	assert.Contains(t, result.Code, `obj.isActive = !jObj.isNull("IsActive") && jObj.getBoolean("IsActive");`)
	assert.Contains(t, result.Code, `obj.isActive = c.getInt(c.getColumnIndex("is_active")) > 0;`)
	assert.Contains(t, result.Code, `"(is_active integer)";`)
}

func TestGenerate_MissingClassName(t *testing.T) {
	_, err := NewGenerator().Generate(models.Request{ClassName: "  ", Lines: itemLines})
	assert.ErrorIs(t, err, errors.ErrMissingClassName)
}

func TestGenerate_PersistenceNeedsFields(t *testing.T) {
	_, err := NewGenerator().Generate(models.Request{
		ClassName: "Empty",
		Lines:     []string{"{", "}"},
		Options:   models.Options{EmitPersistence: true},
	})
	assert.ErrorIs(t, err, errors.ErrNoFields)
}

func TestGenerate_EmptyObjectWithoutPersistence(t *testing.T) {
	result, err := NewGenerator().Generate(models.Request{ClassName: "Empty", Lines: []string{"{", "}"}})
	require.NoError(t, err)
	assert.Contains(t, result.Code, "try { } catch (JSONException e)")
	assert.Empty(t, result.Fields)
}

func TestNewGeneratorWithTemplate(t *testing.T) {
	g := NewGeneratorWithTemplate(Template{LoggerCall: "Log.e", DatabaseCall: "App.db()"})
	result, err := g.Generate(models.Request{
		ClassName: "Item",
		Lines:     itemLines,
		Options:   models.Options{EmitPersistence: true, IsMasterEntity: true},
	})
	require.NoError(t, err)

	assert.Contains(t, result.Code, "Log.e(TAG, e);")
	assert.NotContains(t, result.Code, "Debug.error")
	assert.Contains(t, result.Code, "App.db().insert(TABLE_NAME")
	assert.Contains(t, result.Code, "nameList.add(obj.description);")
}

func TestDeclarations(t *testing.T) {
	fields := []models.Field{
		{Name: "name", Type: models.Text},
		{Name: "count", Type: models.Integer},
		{Name: "active", Type: models.Boolean},
		{Name: "price", Type: models.FloatingPoint},
	}
	assert.Equal(t, "public String name;public Integer count;public Boolean active;public Double price;", Declarations(fields))
}

func TestGuard(t *testing.T) {
	got := DefaultTemplate().guard("Exception", "x();", "count = 0; ")
	assert.Equal(t, "try { x();} catch (Exception e) { count = 0; Debug.error(TAG, e); }", got)
}
