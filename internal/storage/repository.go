// Package storage persists the office's five record collections in SQLite
// and surfaces rows as raw records for the rollup engine.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"burokasa/internal/core"

	_ "modernc.org/sqlite"
)

// tableSpec binds a source kind to its table and writable columns.
type tableSpec struct {
	name    string
	columns []string
	// boolColumns are stored as INTEGER and surfaced as Go bools.
	boolColumns map[string]bool
}

var tables = map[core.SourceKind]tableSpec{
	core.KindCaseFile: {
		name:    "case_files",
		columns: []string{"muvekkil", "dosya_no", "avukatlik_ucreti", "ucret", "tahsilat", "tahsil_edilen", "tahsilat_tarihi", "created_at"},
	},
	core.KindInstitutionFile: {
		name:        "institution_files",
		columns:     []string{"kurum", "tahsil_tutar", "vekalet_orani", "net_hakedis", "odendi", "odenmeDurumu", "odenenTarih", "odeme_tarihi", "created_at"},
		boolColumns: map[string]bool{"odendi": true},
	},
	core.KindOfficeExpense: {
		name:    "office_expenses",
		columns: []string{"aciklama", "kategori", "tutar", "tarih", "created_at"},
	},
	core.KindInstitutionExpense: {
		name:    "institution_expenses",
		columns: []string{"kurum", "aciklama", "tutar", "tarih", "created_at"},
	},
	core.KindCaseExpense: {
		name:    "case_expenses",
		columns: []string{"dosya_id", "aciklama", "tutar", "tarih", "created_at"},
	},
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CaseFiles(ctx context.Context) ([]core.RawRecord, error) {
	return r.list(ctx, core.KindCaseFile)
}

func (r *SQLiteRepository) InstitutionFiles(ctx context.Context) ([]core.RawRecord, error) {
	return r.list(ctx, core.KindInstitutionFile)
}

func (r *SQLiteRepository) OfficeExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return r.list(ctx, core.KindOfficeExpense)
}

func (r *SQLiteRepository) InstitutionExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return r.list(ctx, core.KindInstitutionExpense)
}

func (r *SQLiteRepository) CaseExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return r.list(ctx, core.KindCaseExpense)
}

func (r *SQLiteRepository) list(ctx context.Context, kind core.SourceKind) ([]core.RawRecord, error) {
	spec, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+spec.name) //nolint:gosec // table name from static map
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", spec.name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", spec.name, err)
	}

	var records []core.RawRecord
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", spec.name, err)
		}

		rec := make(core.RawRecord, len(columns))
		for i, col := range columns {
			v := values[i]
			if v == nil {
				continue
			}
			if spec.boolColumns[col] {
				if n, ok := v.(int64); ok {
					rec[col] = n != 0
					continue
				}
			}
			if b, ok := v.([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", spec.name, err)
	}
	return records, nil
}

// Insert stores one raw record, ignoring fields outside the table's schema,
// and returns the generated id.
func (r *SQLiteRepository) Insert(ctx context.Context, kind core.SourceKind, raw core.RawRecord) (string, error) {
	spec, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("unknown source kind: %s", kind)
	}

	id := uuid.NewString()
	cols := []string{"id"}
	args := []any{id}
	for _, col := range spec.columns {
		v, present := raw[col]
		if !present || v == nil {
			continue
		}
		if b, isBool := v.(bool); isBool {
			if b {
				v = 1
			} else {
				v = 0
			}
		}
		cols = append(cols, col)
		args = append(args, v)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", spec.name, strings.Join(cols, ", "), placeholders) //nolint:gosec

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert into %s: %w", spec.name, err)
	}

	slog.InfoContext(ctx, "Record saved",
		"source_kind", kind,
		"record_id", id,
		"table", spec.name)
	return id, nil
}

// Delete removes one record by id.
func (r *SQLiteRepository) Delete(ctx context.Context, kind core.SourceKind, id string) error {
	spec, ok := tables[kind]
	if !ok {
		return fmt.Errorf("unknown source kind: %s", kind)
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM "+spec.name+" WHERE id = ?", id) //nolint:gosec
	if err != nil {
		return fmt.Errorf("delete from %s: %w", spec.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete from %s: %w", spec.name, sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Record deleted", "source_kind", kind, "record_id", id)
	return nil
}
