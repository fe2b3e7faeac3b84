/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

// Package postgres persists entities in PostgreSQL, one table per
// entity type, using the portable column types of the metadata.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
)

func init() {
	driver.Register("postgres", func() driver.Driver { return New() })
}

// Driver implements driver.Driver over a database/sql connection pool.
type Driver struct {
	db       *sql.DB
	registry driver.Registry
}

// New creates an unconnected postgres driver.
func New() *Driver {
	return &Driver{}
}

// SetRegistry stores the connection view for logging and schema walks.
func (d *Driver) SetRegistry(r driver.Registry) {
	d.registry = r
}

// Connect opens the connection pool described by the DSN and verifies
// it with a ping.
func (d *Driver) Connect(ctx context.Context, opts *driver.Options) error {
	if opts == nil || opts.DSN == "" {
		return fmt.Errorf("postgres: DSN is required")
	}
	db, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return fmt.Errorf("postgres: failed to open connection pool: %w", err)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("postgres: failed to reach server: %w", err)
	}
	d.db = db
	d.logger().Debug("postgres pool opened")
	return nil
}

// Disconnect closes the connection pool.
func (d *Driver) Disconnect(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// EnsureSchema creates the entity's table when it does not exist.
func (d *Driver) EnsureSchema(ctx context.Context, m *metadata.EntityMetadata) error {
	if d.db == nil {
		return errors.ErrNotConnected
	}
	ddl, err := createTableDDL(m)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: failed to create table %s: %w", m.Table, err)
	}
	return nil
}

// Insert stores a new row. Columns absent from the row fall back to
// their database defaults.
func (d *Driver) Insert(ctx context.Context, m *metadata.EntityMetadata, row driver.Row) error {
	if d.db == nil {
		return errors.ErrNotConnected
	}

	cols := make([]string, 0, len(m.Columns))
	holders := make([]string, 0, len(m.Columns))
	args := make([]any, 0, len(m.Columns))
	for _, c := range m.Columns {
		v, ok := row[c.Name]
		if !ok {
			continue
		}
		wv, err := writeValue(c, v)
		if err != nil {
			return err
		}
		cols = append(cols, pq.QuoteIdentifier(c.Name))
		holders = append(holders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, wv)
	}
	if len(cols) == 0 {
		return errors.NewValidationError("row", "no columns to insert")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(m.Table), strings.Join(cols, ", "), strings.Join(holders, ", "))
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert into %s failed: %w", m.Table, err)
	}
	return nil
}

// Update rewrites the row identified by the primary key value.
func (d *Driver) Update(ctx context.Context, m *metadata.EntityMetadata, key any, row driver.Row) error {
	if d.db == nil {
		return errors.ErrNotConnected
	}
	pc := m.PrimaryColumn()
	if pc == nil {
		return errors.NewValidationError("columns", "metadata declares no primary column")
	}

	sets := make([]string, 0, len(m.Columns))
	args := make([]any, 0, len(m.Columns)+1)
	for _, c := range m.Columns {
		if c.Primary {
			continue
		}
		v, ok := row[c.Name]
		if !ok {
			continue
		}
		wv, err := writeValue(c, v)
		if err != nil {
			return err
		}
		args = append(args, wv)
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c.Name), len(args)))
	}
	if len(sets) == 0 {
		return errors.NewValidationError("row", "no columns to update")
	}
	args = append(args, key)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		pq.QuoteIdentifier(m.Table), strings.Join(sets, ", "), pq.QuoteIdentifier(pc.Name), len(args))
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: update of %s failed: %w", m.Table, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return errors.NewNotFoundError(string(m.Target), fmt.Sprint(key))
	}
	return nil
}

// Remove deletes the row identified by the primary key value.
func (d *Driver) Remove(ctx context.Context, m *metadata.EntityMetadata, key any) error {
	if d.db == nil {
		return errors.ErrNotConnected
	}
	pc := m.PrimaryColumn()
	if pc == nil {
		return errors.NewValidationError("columns", "metadata declares no primary column")
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(m.Table), pq.QuoteIdentifier(pc.Name))
	res, err := d.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("postgres: delete from %s failed: %w", m.Table, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return errors.NewNotFoundError(string(m.Target), fmt.Sprint(key))
	}
	return nil
}

// FindOne loads the row identified by the primary key value, or
// (nil, nil) when no row matches.
func (d *Driver) FindOne(ctx context.Context, m *metadata.EntityMetadata, key any) (driver.Row, error) {
	if d.db == nil {
		return nil, errors.ErrNotConnected
	}
	pc := m.PrimaryColumn()
	if pc == nil {
		return nil, errors.NewValidationError("columns", "metadata declares no primary column")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		selectColumns(m), pq.QuoteIdentifier(m.Table), pq.QuoteIdentifier(pc.Name))
	dests := scanDests(m)
	err := d.db.QueryRowContext(ctx, query, key).Scan(dests...)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: select from %s failed: %w", m.Table, err)
	}
	return rowFromDests(m, dests)
}

// Find loads the rows matching the criteria as an equality conjunction,
// ordered by primary key when one is declared. Empty criteria loads the
// whole table.
func (d *Driver) Find(ctx context.Context, m *metadata.EntityMetadata, criteria driver.Row) ([]driver.Row, error) {
	if d.db == nil {
		return nil, errors.ErrNotConnected
	}

	query := fmt.Sprintf("SELECT %s FROM %s", selectColumns(m), pq.QuoteIdentifier(m.Table))
	var args []any
	if len(criteria) > 0 {
		conds := make([]string, 0, len(criteria))
		for _, c := range m.Columns {
			v, ok := criteria[c.Name]
			if !ok {
				continue
			}
			prepared, err := writeValue(c, v)
			if err != nil {
				return nil, err
			}
			args = append(args, prepared)
			conds = append(conds, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c.Name), len(args)))
		}
		if len(conds) != len(criteria) {
			return nil, errors.NewValidationError("criteria", "criteria references unknown columns")
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if pc := m.PrimaryColumn(); pc != nil {
		query += fmt.Sprintf(" ORDER BY %s", pq.QuoteIdentifier(pc.Name))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: select from %s failed: %w", m.Table, err)
	}
	defer rows.Close()

	var out []driver.Row
	for rows.Next() {
		dests := scanDests(m)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("postgres: scan of %s failed: %w", m.Table, err)
		}
		row, err := rowFromDests(m, dests)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *Driver) logger() *slog.Logger {
	if d.registry != nil {
		return d.registry.Logger()
	}
	return slog.Default()
}

func selectColumns(m *metadata.EntityMetadata) string {
	quoted := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		quoted[i] = pq.QuoteIdentifier(c.Name)
	}
	return strings.Join(quoted, ", ")
}

// writeValue prepares a row value for the SQL layer. JSON columns are
// marshaled; everything else passes through.
func writeValue(c *metadata.ColumnMetadata, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if c.Type == metadata.TypeJSON {
		// pq sends []byte as bytea, so json documents travel as text.
		switch t := v.(type) {
		case []byte:
			return string(t), nil
		case string:
			return t, nil
		default:
			raw, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("postgres: failed to marshal column %s: %w", c.Name, err)
			}
			return string(raw), nil
		}
	}
	return v, nil
}

func scanDests(m *metadata.EntityMetadata) []any {
	out := make([]any, len(m.Columns))
	for i, c := range m.Columns {
		switch c.Type {
		case metadata.TypeInteger:
			out[i] = new(sql.NullInt64)
		case metadata.TypeFloat:
			out[i] = new(sql.NullFloat64)
		case metadata.TypeBoolean:
			out[i] = new(sql.NullBool)
		case metadata.TypeTimestamp:
			out[i] = new(sql.NullTime)
		case metadata.TypeJSON:
			out[i] = new([]byte)
		default:
			out[i] = new(sql.NullString)
		}
	}
	return out
}

// rowFromDests converts scan holders back into a row. NULL columns stay
// absent from the row.
func rowFromDests(m *metadata.EntityMetadata, dests []any) (driver.Row, error) {
	row := make(driver.Row, len(m.Columns))
	for i, c := range m.Columns {
		switch v := dests[i].(type) {
		case *sql.NullString:
			if v.Valid {
				row[c.Name] = v.String
			}
		case *sql.NullInt64:
			if v.Valid {
				row[c.Name] = v.Int64
			}
		case *sql.NullFloat64:
			if v.Valid {
				row[c.Name] = v.Float64
			}
		case *sql.NullBool:
			if v.Valid {
				row[c.Name] = v.Bool
			}
		case *sql.NullTime:
			if v.Valid {
				row[c.Name] = v.Time
			}
		case *[]byte:
			if *v != nil {
				var out any
				if err := json.Unmarshal(*v, &out); err != nil {
					return nil, fmt.Errorf("postgres: failed to unmarshal column %s: %w", c.Name, err)
				}
				row[c.Name] = out
			}
		}
	}
	return row, nil
}
