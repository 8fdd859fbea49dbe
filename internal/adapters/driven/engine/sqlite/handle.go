package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

// timeFormat matches the driver's default when writing time.Time values.
const timeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Ensure Handle implements the interface.
var _ driven.DatabaseHandle = (*Handle)(nil)

// Handle is one in-memory database pinned to a single connection.
type Handle struct {
	db   *sql.DB
	conn *sql.Conn
}

// Exec runs raw SQL without parameters.
func (h *Handle) Exec(ctx context.Context, text string) (domain.Changes, error) {
	return h.exec(ctx, text, nil)
}

// Run executes a single statement with bound values.
func (h *Handle) Run(ctx context.Context, text string, values []domain.Value) (domain.Changes, error) {
	return h.exec(ctx, text, values)
}

func (h *Handle) exec(ctx context.Context, text string, values []domain.Value) (domain.Changes, error) {
	before, err := h.counter(ctx, "total_changes()")
	if err != nil {
		return domain.Changes{}, err
	}

	res, err := h.conn.ExecContext(ctx, text, values...)
	if err != nil {
		return domain.Changes{}, err
	}

	after, err := h.counter(ctx, "total_changes()")
	if err != nil {
		return domain.Changes{}, err
	}

	// changes() keeps the count of the last write across DDL and reads, so it
	// is only consulted when this call wrote something. It excludes rows
	// touched by triggers and foreign key actions.
	var n int64
	if after > before {
		if n, err = h.counter(ctx, "changes()"); err != nil {
			return domain.Changes{}, err
		}
	}

	// The driver always reports last_insert_rowid().
	lastID, _ := res.LastInsertId()

	return domain.Changes{Changes: n, LastID: lastID}, nil
}

// counter reads one of SQLite's change counting functions.
func (h *Handle) counter(ctx context.Context, fn string) (int64, error) {
	var n int64
	if err := h.conn.QueryRowContext(ctx, "SELECT "+fn).Scan(&n); err != nil {
		return 0, fmt.Errorf("reading %s: %w", fn, err)
	}
	return n, nil
}

// Query executes a statement and collects every row.
func (h *Handle) Query(ctx context.Context, text string, values []domain.Value) ([]domain.Row, error) {
	rows, err := h.conn.QueryContext(ctx, text, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []domain.Row{}
	for rows.Next() {
		dest := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := domain.NewRow(len(columns))
		for i, col := range columns {
			row.Set(col, normalize(dest[i]))
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// normalize maps driver output back onto the engine-native value domain.
func normalize(v any) domain.Value {
	switch x := v.(type) {
	case bool:
		return domain.SanitizeValue(x)
	case time.Time:
		return x.Format(timeFormat)
	case int:
		return int64(x)
	default:
		return v
	}
}

// Export serialises the database image.
// An empty database exports as an empty slice.
func (h *Handle) Export(ctx context.Context) ([]byte, error) {
	var pages int64
	if err := h.conn.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return nil, fmt.Errorf("reading page count: %w", err)
	}
	if pages == 0 {
		return []byte{}, nil
	}

	var image []byte
	err := h.conn.Raw(func(driverConn any) error {
		s, ok := driverConn.(serializer)
		if !ok {
			return errNoSerialization
		}
		var err error
		image, err = s.Serialize()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("serializing database: %w", err)
	}
	return image, nil
}

// Close releases the connection and the database.
func (h *Handle) Close() error {
	return errors.Join(h.conn.Close(), h.db.Close())
}
