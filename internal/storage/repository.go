package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payviu/internal/core"
	"payviu/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the payment document store over a local SQLite
// database. Amounts are stored as decimal strings and due dates as
// YYYY-MM-DD text, so no value loses precision on the round trip.
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

const paymentColumns = `id, user_id, title, description, type, period, priority,
	due_date, color, status, total_amount, amount_paid, created_at`

func (r *SQLiteRepository) ListPayments(ctx context.Context, userID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *SQLiteRepository) ListUnpaidPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE status != ? ORDER BY created_at, id`,
		string(core.StatusPaid))
	if err != nil {
		return nil, fmt.Errorf("query unpaid payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, store.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) InsertPayment(ctx context.Context, p core.Payment) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		p.UserID,
		p.Title,
		p.Description,
		string(p.Type),
		string(p.Period),
		string(p.Priority),
		p.DueDate.String(),
		p.Color,
		string(p.Status),
		p.TotalAmount.String(),
		p.AmountPaid.String(),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved to SQLite",
		"payment_id", id,
		"title", p.Title,
		"user_id", p.UserID)

	return id, nil
}

// PatchPayment writes only the fields the patch actually sets.
func (r *SQLiteRepository) PatchPayment(ctx context.Context, id string, patch core.PaymentPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Type != nil {
		set("type", string(*patch.Type))
	}
	if patch.Period != nil {
		set("period", string(*patch.Period))
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.DueDate != nil {
		set("due_date", patch.DueDate.String())
	}
	if patch.Color != nil {
		set("color", *patch.Color)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.TotalAmount != nil {
		set("total_amount", patch.TotalAmount.String())
	}
	if patch.AmountPaid != nil {
		set("amount_paid", patch.AmountPaid.String())
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE payments SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patch payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) RemovePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Payment deleted from SQLite", "payment_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (core.Payment, error) {
	var (
		p                       core.Payment
		typ, period, prio, stat string
		dueDate, createdAt      string
		totalAmount, amountPaid string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description,
		&typ, &period, &prio,
		&dueDate, &p.Color, &stat,
		&totalAmount, &amountPaid, &createdAt,
	)
	if err != nil {
		return core.Payment{}, err
	}

	p.Type = core.PaymentType(typ)
	p.Period = core.Period(period)
	p.Priority = core.Priority(prio)
	p.Status = core.Status(stat)

	if p.DueDate, err = core.ParseDate(dueDate); err != nil {
		return core.Payment{}, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	if p.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return core.Payment{}, fmt.Errorf("payment %s: parse total amount: %w", p.ID, err)
	}
	if p.AmountPaid, err = decimal.NewFromString(amountPaid); err != nil {
		return core.Payment{}, fmt.Errorf("payment %s: parse amount paid: %w", p.ID, err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Payment{}, fmt.Errorf("payment %s: parse created at: %w", p.ID, err)
	}

	return p, nil
}

func scanPayments(rows *sql.Rows) ([]core.Payment, error) {
	var out []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}
