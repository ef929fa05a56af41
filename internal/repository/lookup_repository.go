package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// ErrLookupNotFound is returned when a lookup-table id does not exist.
var ErrLookupNotFound = errors.New("lookup entry not found")

// LookupRepo serves the small admin-managed reference tables.  Both tables
// share the same shape (id, nome, ativo); the table name is fixed at
// construction so no caller-provided string ever reaches the SQL text.
type LookupRepo struct {
	db    *sql.DB
	table string
}

// NewTipoRequerimentoRepo serves the 'tipos_requerimento' table.
func NewTipoRequerimentoRepo(db *sql.DB) *LookupRepo {
	return &LookupRepo{db: db, table: "tipos_requerimento"}
}

// NewLotacaoRepo serves the 'lotacoes' table.
func NewLotacaoRepo(db *sql.DB) *LookupRepo {
	return &LookupRepo{db: db, table: "lotacoes"}
}

// ListAll returns every entry, active or not, for the management screen.
func (r *LookupRepo) ListAll(ctx context.Context) ([]model.Lookup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nome, ativo FROM `+r.table+` ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lookup, 0)
	for rows.Next() {
		var l model.Lookup
		if err := rows.Scan(&l.ID, &l.Nome, &l.Ativo); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAtivos returns only the names of active entries, for form dropdowns.
func (r *LookupRepo) ListAtivos(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT nome FROM `+r.table+` WHERE ativo = TRUE ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var nome string
		if err := rows.Scan(&nome); err != nil {
			return nil, err
		}
		out = append(out, nome)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new active entry.
func (r *LookupRepo) Create(ctx context.Context, nome string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+r.table+` (nome, ativo) VALUES (?, TRUE)`, nome)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetAtivo toggles an entry.  Deactivated entries stop appearing in forms but
// historical protocolos keep their name.
func (r *LookupRepo) SetAtivo(ctx context.Context, id uint64, ativo bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+r.table+` SET ativo = ? WHERE id = ?`, ativo, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLookupNotFound
	}
	return nil
}
