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

var _ repository.ContractRepository = (*ContractRepo)(nil)

// ContractRepo implementación de ContractRepository sobre PostgreSQL.
// Cabecera en contracts (partes como JSONB) y secciones en contract_sections
// con su orden. Las escrituras de cabecera+secciones van en una transacción.
type ContractRepo struct {
	pool *pgxpool.Pool
}

// NewContractRepository construye el adaptador de persistencia para contratos.
func NewContractRepository(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

// Create persiste cabecera y secciones en una transacción.
func (r *ContractRepo) Create(contract *entity.Contract) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	parties, err := json.Marshal(contract.Parties)
	if err != nil {
		return fmt.Errorf("serializar parties: %w", err)
	}
	query := `
		INSERT INTO contracts (id, user_id, title, effective_date, parties,
		                       original_transcript, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.Exec(ctx, query,
		contract.ID, contract.UserID, contract.ContractTitle, contract.EffectiveDate,
		parties, contract.OriginalTranscript, contract.CreatedAt, contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	if err := insertContractSections(ctx, tx, contract); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update reemplaza cabecera y secciones completas en una transacción.
func (r *ContractRepo) Update(contract *entity.Contract) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	parties, err := json.Marshal(contract.Parties)
	if err != nil {
		return fmt.Errorf("serializar parties: %w", err)
	}
	query := `
		UPDATE contracts
		SET title = $2, effective_date = $3, parties = $4,
		    original_transcript = $5, updated_at = $6
		WHERE id = $1`
	_, err = tx.Exec(ctx, query,
		contract.ID, contract.ContractTitle, contract.EffectiveDate,
		parties, contract.OriginalTranscript, contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM contract_sections WHERE contract_id = $1`, contract.ID); err != nil {
		return fmt.Errorf("delete contract sections: %w", err)
	}
	if err := insertContractSections(ctx, tx, contract); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato con sus secciones. Devuelve nil, nil si no existe.
func (r *ContractRepo) GetByID(id string) (*entity.Contract, error) {
	ctx := context.Background()
	query := `
		SELECT id, user_id, title, effective_date, parties, original_transcript,
		       created_at, updated_at
		FROM contracts WHERE id = $1`
	c, err := scanContract(r.pool.QueryRow(ctx, query, id))
	if err != nil || c == nil {
		return c, err
	}

	sections, err := r.sectionsFor(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Sections = sections[c.ID]
	return c, nil
}

// ListByUser lista los contratos del usuario con sus secciones, más recientes primero.
func (r *ContractRepo) ListByUser(userID string, limit, offset int) ([]*entity.Contract, error) {
	ctx := context.Background()
	query := `
		SELECT id, user_id, title, effective_date, parties, original_transcript,
		       created_at, updated_at
		FROM contracts WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Contract
	var ids []string
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	sections, err := r.sectionsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		c.Sections = sections[c.ID]
	}
	return list, nil
}

// Delete elimina el contrato; las secciones caen por ON DELETE CASCADE.
func (r *ContractRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func insertContractSections(ctx context.Context, q Querier, contract *entity.Contract) error {
	query := `
		INSERT INTO contract_sections (id, contract_id, section_order, title, content)
		VALUES ($1, $2, $3, $4, $5)`
	for _, s := range contract.Sections {
		_, err := q.Exec(ctx, query,
			uuid.New().String(), contract.ID, s.Order, s.Title, s.Content,
		)
		if err != nil {
			return fmt.Errorf("insert contract section: %w", err)
		}
	}
	return nil
}

func scanContract(row pgx.Row) (*entity.Contract, error) {
	var c entity.Contract
	var parties []byte
	err := row.Scan(
		&c.ID, &c.UserID, &c.ContractTitle, &c.EffectiveDate, &parties,
		&c.OriginalTranscript, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	if err := json.Unmarshal(parties, &c.Parties); err != nil {
		return nil, fmt.Errorf("deserializar parties: %w", err)
	}
	return &c, nil
}

// sectionsFor carga las secciones de un conjunto de contratos en una consulta.
func (r *ContractRepo) sectionsFor(ctx context.Context, contractIDs []string) (map[string][]entity.ContractSection, error) {
	query := `
		SELECT contract_id, section_order, title, content
		FROM contract_sections WHERE contract_id = ANY($1)
		ORDER BY contract_id, section_order`
	rows, err := r.pool.Query(ctx, query, contractIDs)
	if err != nil {
		return nil, fmt.Errorf("list contract sections: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.ContractSection, len(contractIDs))
	for rows.Next() {
		var contractID string
		var s entity.ContractSection
		if err := rows.Scan(&contractID, &s.Order, &s.Title, &s.Content); err != nil {
			return nil, fmt.Errorf("scan contract section: %w", err)
		}
		out[contractID] = append(out[contractID], s)
	}
	return out, rows.Err()
}
