package sqlcheck

import (
	"context"
	"testing"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/generator"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementsFor(t *testing.T, className string, lines []string, opts models.Options) generator.Statements {
	t.Helper()
	opts.EmitPersistence = true
	result, err := generator.NewGenerator().Generate(models.Request{ClassName: className, Lines: lines, Options: opts})
	require.NoError(t, err)
	require.NotNil(t, result.Statements)
	return *result.Statements
}

func TestVerify_GeneratedStatementsRun(t *testing.T) {
	stmts := statementsFor(t, "Product", []string{
		"{",
		`"Code" : "P-1",`,
		`"Description" : "Chair",`,
		`"UnitPrice" : 19.99,`,
		`"Stock" : 4,`,
		`"IsActive" : true`,
		"}",
	}, models.Options{IsMasterEntity: true, IDFieldKey: "Code", FilterFieldKey: "Description"})

	report, err := Verify(context.Background(), stmts)
	require.NoError(t, err)

	assert.Equal(t, "product", report.Table)
	assert.Equal(t, []string{"id", "description", "unit_price", "stock", "is_active"}, report.Columns)
	assert.Contains(t, report.Executed, "create table product(id text,description text,unit_price float,stock integer,is_active integer)")
	assert.Contains(t, report.Executed, "select * from product where description='' COLLATE NOCASE")
	assert.Contains(t, report.Executed, "select * from product where id='' COLLATE NOCASE")
	assert.Contains(t, report.Executed, "insert into product (id,description,unit_price,stock,is_active) values (?,?,?,?,?)")
	assert.Equal(t, "delete from product", report.Executed[len(report.Executed)-1])
}

func TestVerify_ReservedTableName(t *testing.T) {
	stmts := statementsFor(t, "Order", []string{"{", `"Total" : 1.5`, "}"}, models.Options{})

	_, err := Verify(context.Background(), stmts)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSchemaRejected)
	assert.Contains(t, err.Error(), "create table order")
}

func TestVerify_DuplicateColumns(t *testing.T) {
	stmts := statementsFor(t, "Person", []string{"{", `"Name" : "a",`, `"name" : "b"`, "}"}, models.Options{})

	_, err := Verify(context.Background(), stmts)
	assert.ErrorIs(t, err, errors.ErrSchemaRejected)
}

func TestVerify_FilterOnUnknownColumn(t *testing.T) {
	stmts := statementsFor(t, "Person", []string{"{", `"Name" : "a"`, "}"}, models.Options{FilterFieldKey: "Email"})

	_, err := Verify(context.Background(), stmts)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSchemaRejected)
	assert.Contains(t, err.Error(), "email")
}
