package repository

import (
	"context"
	"database/sql"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// ServidorRepo reads the municipal staff registry.  The table is reference
// data maintained outside this API, so the repo only looks up.
type ServidorRepo struct {
	db *sql.DB
}

func NewServidorRepo(db *sql.DB) *ServidorRepo { return &ServidorRepo{db: db} }

// GetByMatricula returns the servidor with the given matrícula, used to
// autofill the request form.  Duplicated matrículas in the RH export resolve
// to an arbitrary single row, matching the original lookup.
func (r *ServidorRepo) GetByMatricula(ctx context.Context, matricula string) (*model.Servidor, error) {
	var s model.Servidor
	err := r.db.QueryRowContext(ctx,
		`SELECT matricula, nome, lotacao, cargo, unidade_exercicio FROM servidores WHERE matricula = ? LIMIT 1`,
		matricula).Scan(&s.Matricula, &s.Nome, &s.Lotacao, &s.Cargo, &s.UnidadeExercicio)
	if err == sql.ErrNoRows {
		return nil, ErrServidorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
