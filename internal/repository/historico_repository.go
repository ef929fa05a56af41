package repository

import (
	"context"
	"database/sql"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// HistoricoRepo reads the movimentação ledger of a protocolo.  The ledger is
// append-only: rows are written exclusively through appendHistoricoTx inside
// the same transaction that mutates the protocolo's current state, so the
// denormalized status/responsavel columns can never drift from the ledger.
type HistoricoRepo struct {
	db *sql.DB
}

// NewHistoricoRepo constructs a HistoricoRepo bound to the given database.
func NewHistoricoRepo(db *sql.DB) *HistoricoRepo { return &HistoricoRepo{db: db} }

// ListByProtocolo returns every historico entry of a protocolo, newest first.
// An unknown id yields an empty slice, not an error: whether the protocolo
// itself exists is a separate check, and display code gets to stay simple.
func (r *HistoricoRepo) ListByProtocolo(ctx context.Context, protocoloID uint64) ([]model.Historico, error) {
	const q = `SELECT id, protocolo_id, status, responsavel, observacao,
		DATE_FORMAT(data_movimentacao, '%Y-%m-%d %H:%i:%s')
		FROM historico_protocolos WHERE protocolo_id = ?
		ORDER BY data_movimentacao DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, protocoloID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Historico, 0)
	for rows.Next() {
		var h model.Historico
		if err := rows.Scan(&h.ID, &h.ProtocoloID, &h.Status, &h.Responsavel, &h.Observacao, &h.DataMovimentacao); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// appendHistoricoTx inserts one ledger entry within an existing transaction.
// data_movimentacao is assigned by the database.  Callers must commit or
// rollback together with the state update this entry documents.
func appendHistoricoTx(ctx context.Context, tx *sql.Tx, protocoloID uint64, status, responsavel, observacao string) error {
	const q = `INSERT INTO historico_protocolos (protocolo_id, status, responsavel, observacao) VALUES (?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, protocoloID, status, responsavel, observacao)
	return err
}
