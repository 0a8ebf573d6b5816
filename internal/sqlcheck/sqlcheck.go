// Package sqlcheck runs the SQL embedded in a generated class against an in-memory SQLite
// database, so a table or column name SQLite would reject is caught at generation time.
package sqlcheck

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/generator"

	_ "modernc.org/sqlite"
)

// Report lists what was executed during verification.
type Report struct {
	Table   string
	Columns []string
	// Executed holds every statement that ran, in order.
	Executed []string
}

// Verify creates the table in a throwaway database and runs every statement the generated
// methods would issue. The first statement SQLite rejects is reported as ErrSchemaRejected.
func Verify(ctx context.Context, stmts generator.Statements) (*Report, error) {
	log := clog.FromContext(ctx).With("table", stmts.TableName)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	report := &Report{Table: stmts.TableName}

	exec := func(query string, args ...any) error {
		log.Debugf("verifying statement: %s", query)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return rejected(query, err)
		}
		report.Executed = append(report.Executed, query)
		return nil
	}

	if err := exec(stmts.CreateTable); err != nil {
		return nil, err
	}

	cols, err := tableColumns(ctx, db, stmts.TableName)
	if err != nil {
		return nil, err
	}
	report.Columns = cols
	if !slices.Equal(cols, stmts.InsertColumns) {
		return nil, fmt.Errorf("table %s has columns %v, expected %v: %w",
			stmts.TableName, cols, stmts.InsertColumns, errors.ErrSchemaRejected)
	}

	if err := exec(insertStatement(stmts), make([]any, len(stmts.InsertColumns))...); err != nil {
		return nil, err
	}

	for _, query := range []string{stmts.SelectAll, stmts.SelectFiltered, stmts.SelectByID} {
		if query == "" {
			continue
		}
		if err := selectRows(ctx, db, query); err != nil {
			return nil, err
		}
		report.Executed = append(report.Executed, query)
	}

	var count int
	if err := db.QueryRowContext(ctx, stmts.Count).Scan(&count); err != nil {
		return nil, rejected(stmts.Count, err)
	}
	report.Executed = append(report.Executed, stmts.Count)

	if err := exec(stmts.DeleteAll); err != nil {
		return nil, err
	}

	log.Debugf("schema verified: %d columns, %d statements", len(cols), len(report.Executed))
	return report, nil
}

func rejected(query string, err error) error {
	return fmt.Errorf("%q: %v: %w", query, err, errors.ErrSchemaRejected)
}

// insertStatement mirrors the ContentValues insert of the generated addObj.
func insertStatement(stmts generator.Statements) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(stmts.InsertColumns)), ",")
	return fmt.Sprintf("insert into %s (%s) values (%s)",
		stmts.TableName, strings.Join(stmts.InsertColumns, ","), placeholders)
}

func selectRows(ctx context.Context, db *sql.DB, query string) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return rejected(query, err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return rejected(query, err)
	}
	clog.FromContext(ctx).Debugf("%q returned %d row(s)", query, n)
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("read table info: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
