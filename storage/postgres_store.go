package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"aeo-analytics/models"
	"aeo-analytics/utils"
)

type tableSchema struct {
	name    string
	columns []string
	numeric map[string]bool
}

var pgSchemas = map[string]tableSchema{
	models.TableRanking: {
		name: "ranking_rows",
		columns: []string{
			models.ColCategory, models.ColSource, models.ColNormalizedScore,
			models.ColScoreSum, models.ColRank,
		},
		numeric: map[string]bool{models.ColNormalizedScore: true, models.ColScoreSum: true, models.ColRank: true},
	},
	models.TableProductDetail: {
		name: "product_detail_rows",
		columns: []string{
			models.ColCategory, models.ColProductName, models.ColSource,
			models.ColRank, models.ColExtra, models.ColResponse,
		},
		numeric: map[string]bool{models.ColRank: true},
	},
	models.TableCitation: {
		name:    "citation_rows",
		columns: []string{models.ColCategory, models.ColProductName, models.ColCitations},
	},
}

// PostgresStore keeps the three input tables in PostgreSQL. It is both a
// TableSource and a TableWriter.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, pings it under the
// given retry policy, runs schema migrations, and returns a ready store.
func NewPostgresStore(ctx context.Context, dsn string, retry utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres ping", func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ranking_rows (
			id               SERIAL PRIMARY KEY,
			category         TEXT             NOT NULL,
			source           TEXT             NOT NULL,
			normalized_score DOUBLE PRECISION,
			score_sum        DOUBLE PRECISION,
			rank             INTEGER
		);

		CREATE TABLE IF NOT EXISTS product_detail_rows (
			id           SERIAL PRIMARY KEY,
			category     TEXT    NOT NULL,
			product_name TEXT    NOT NULL DEFAULT '',
			source       TEXT    NOT NULL,
			rank         INTEGER,
			extra        TEXT    NOT NULL DEFAULT '',
			response     TEXT    NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS citation_rows (
			id           SERIAL PRIMARY KEY,
			category     TEXT NOT NULL,
			product_name TEXT NOT NULL DEFAULT '',
			citations    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_ranking_rows_category ON ranking_rows(category);
		CREATE INDEX IF NOT EXISTS idx_product_detail_rows_category ON product_detail_rows(category);
		CREATE INDEX IF NOT EXISTS idx_citation_rows_category ON citation_rows(category);
	`)
	return err
}

// ReadTable implements TableSource. NULL cells come back as empty strings.
func (ps *PostgresStore) ReadTable(ctx context.Context, kind string) (*models.Table, error) {
	schema, ok := pgSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("postgres: unknown table kind %q", kind)
	}

	rows, err := ps.db.QueryContext(ctx, selectStatement(schema))
	if err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", schema.name, err)
	}
	defer rows.Close()

	t := &models.Table{Name: kind, Path: ps.Describe(kind), Header: append([]string(nil), schema.columns...)}
	for rows.Next() {
		cells := make([]sql.NullString, len(schema.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan %s row: %w", schema.name, err)
		}

		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", schema.name, err)
	}
	return t, nil
}

// Describe implements TableSource.
func (ps *PostgresStore) Describe(kind string) string {
	if schema, ok := pgSchemas[kind]; ok {
		return "postgres:" + schema.name
	}
	return "postgres:" + kind
}

// WriteTable replaces the stored rows of t's kind with t's rows, in one
// transaction. Columns are matched by canonical header name.
func (ps *PostgresStore) WriteTable(ctx context.Context, t *models.Table) error {
	schema, ok := pgSchemas[t.Name]
	if !ok {
		return fmt.Errorf("postgres: unknown table kind %q", t.Name)
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+schema.name); err != nil {
		return fmt.Errorf("postgres: clear %s: %w", schema.name, err)
	}

	idx := t.ColumnIndex()
	const batchSize = 200
	for i := 0; i < len(t.Rows); i += batchSize {
		end := i + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		batch := t.Rows[i:end]
		args := make([]any, 0, len(batch)*len(schema.columns))
		for _, row := range batch {
			args = append(args, rowArgs(schema, idx, row)...)
		}
		if _, err := tx.ExecContext(ctx, insertStatement(schema, len(batch)), args...); err != nil {
			return fmt.Errorf("postgres: insert into %s: %w", schema.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func selectStatement(schema tableSchema) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(schema.columns, ", "), schema.name)
}

func insertStatement(schema tableSchema, n int) string {
	width := len(schema.columns)
	valueStrings := make([]string, 0, n)
	for r := 0; r < n; r++ {
		ph := make([]string, width)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", r*width+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		schema.name, strings.Join(schema.columns, ", "), strings.Join(valueStrings, ","))
}

// rowArgs orders a row's cells by the schema's columns. Missing cells and
// blank numeric or citation cells become NULL.
func rowArgs(schema tableSchema, idx map[string]int, row []string) []any {
	args := make([]any, len(schema.columns))
	for i, col := range schema.columns {
		j, ok := idx[col]
		if !ok || j >= len(row) {
			if schema.numeric[col] || col == models.ColCitations {
				args[i] = nil
			} else {
				args[i] = ""
			}
			continue
		}
		v := strings.TrimSpace(row[j])
		if v == "" && (schema.numeric[col] || col == models.ColCitations) {
			args[i] = nil
			continue
		}
		args[i] = row[j]
		if schema.numeric[col] {
			args[i] = v
		}
	}
	return args
}
