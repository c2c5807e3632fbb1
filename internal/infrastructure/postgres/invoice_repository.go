package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL.
// Cabecera en invoices (from/to como JSONB, montos NUMERIC) y líneas en
// invoice_items con su posición. Las escrituras de cabecera+líneas van en
// una transacción.
type InvoiceRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

// Create persiste cabecera y líneas en una transacción.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertInvoiceHeader(ctx, tx, invoice); err != nil {
		return err
	}
	if err := insertInvoiceItems(ctx, tx, invoice); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update reemplaza cabecera y líneas completas en una transacción.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	from, to, err := marshalParties(invoice)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET invoice_number = $2, date = $3, due_date = $4,
		    from_party = $5, to_party = $6,
		    subtotal = $7, tax = $8, total = $9,
		    notes = $10, original_transcript = $11, updated_at = $12
		WHERE id = $1`
	_, err = tx.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.Date, invoice.DueDate,
		from, to,
		invoice.Subtotal, invoice.Tax, invoice.Total,
		nullIfEmpty(invoice.Notes), invoice.OriginalTranscript, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	if err := insertInvoiceItems(ctx, tx, invoice); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una factura con sus líneas. Devuelve nil, nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	ctx := context.Background()
	query := `
		SELECT id, user_id, invoice_number, date, due_date, from_party, to_party,
		       subtotal, tax, total, COALESCE(notes, ''), original_transcript,
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil || inv == nil {
		return inv, err
	}

	items, err := r.itemsFor(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

// ListByUser lista las facturas del usuario con sus líneas, más recientes primero.
func (r *InvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	ctx := context.Background()
	query := `
		SELECT id, user_id, invoice_number, date, due_date, from_party, to_party,
		       subtotal, tax, total, COALESCE(notes, ''), original_transcript,
		       created_at, updated_at
		FROM invoices WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		inv.Items = items[inv.ID]
	}
	return list, nil
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func insertInvoiceHeader(ctx context.Context, q Querier, invoice *entity.Invoice) error {
	from, to, err := marshalParties(invoice)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, date, due_date, from_party, to_party,
		                      subtotal, tax, total, notes, original_transcript, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = q.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.InvoiceNumber, invoice.Date, invoice.DueDate,
		from, to,
		invoice.Subtotal, invoice.Tax, invoice.Total,
		nullIfEmpty(invoice.Notes), invoice.OriginalTranscript,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func insertInvoiceItems(ctx context.Context, q Querier, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, it := range invoice.Items {
		_, err := q.Exec(ctx, query,
			uuid.New().String(), invoice.ID, i, it.Description, it.Quantity, it.Rate, it.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func marshalParties(invoice *entity.Invoice) (from, to []byte, err error) {
	if from, err = json.Marshal(invoice.From); err != nil {
		return nil, nil, fmt.Errorf("serializar from: %w", err)
	}
	if to, err = json.Marshal(invoice.To); err != nil {
		return nil, nil, fmt.Errorf("serializar to: %w", err)
	}
	return from, to, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var from, to []byte
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate, &from, &to,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.Notes, &inv.OriginalTranscript,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	if err := json.Unmarshal(from, &inv.From); err != nil {
		return nil, fmt.Errorf("deserializar from: %w", err)
	}
	if err := json.Unmarshal(to, &inv.To); err != nil {
		return nil, fmt.Errorf("deserializar to: %w", err)
	}
	return &inv, nil
}

// itemsFor carga las líneas de un conjunto de facturas en una sola consulta.
func (r *InvoiceRepo) itemsFor(ctx context.Context, invoiceIDs []string) (map[string][]entity.InvoiceItem, error) {
	query := `
		SELECT invoice_id, description, quantity, rate, amount
		FROM invoice_items WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`
	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InvoiceItem, len(invoiceIDs))
	for rows.Next() {
		var invoiceID string
		var it entity.InvoiceItem
		if err := rows.Scan(&invoiceID, &it.Description, &it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[invoiceID] = append(out[invoiceID], it)
	}
	return out, rows.Err()
}
