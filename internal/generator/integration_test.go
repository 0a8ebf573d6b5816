package generator_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonmodel/internal/generator"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/parser"
	"github.com/mcncl/jsonmodel/internal/sqlcheck"
)

func TestIntegration_ParserGeneratorSQLCheck(t *testing.T) {
	// Test the full pipeline: Parser -> Generator -> SQLite
	samples := []struct {
		file  string
		class string
		opts  models.Options
	}{
		{"item.json", "Item", models.Options{EmitPersistence: true, IsMasterEntity: true, IDFieldKey: "ItemCode", FilterFieldKey: "Description"}},
		{"customer.json", "Customer", models.Options{EmitPersistence: true, IDFieldKey: "CustomerID", FilterFieldKey: "Name"}},
		{"route.json", "Route", models.Options{EmitPersistence: true}},
	}

	for _, s := range samples {
		t.Run(s.class, func(t *testing.T) {
			lines, err := parser.ParseFile(filepath.Join("..", "..", "testdata", "samples", s.file))
			require.NoError(t, err)

			result, err := generator.NewGenerator().Generate(models.Request{
				ClassName: s.class,
				Lines:     lines,
				Options:   s.opts,
			})
			require.NoError(t, err)
			require.NotNil(t, result.Statements)

			report, err := sqlcheck.Verify(context.Background(), *result.Statements)
			require.NoError(t, err)

			columns := make([]string, len(result.Fields))
			for i, f := range result.Fields {
				columns[i] = f.StorageName
			}
			assert.Equal(t, columns, report.Columns)
			assert.Equal(t, result.Statements.TableName, report.Table)
		})
	}
}

func TestIntegration_WithoutPersistenceHasNoStatements(t *testing.T) {
	lines, err := parser.ParseString("{\n\"Name\" : \"Chair\"\n}")
	require.NoError(t, err)

	result, err := generator.NewGenerator().Generate(models.Request{ClassName: "Chair", Lines: lines})
	require.NoError(t, err)

	assert.Nil(t, result.Statements)
	require.Len(t, result.Fields, 1)
	assert.Empty(t, result.Fields[0].StorageName)
}
