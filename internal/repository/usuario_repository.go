package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// ErrUsuarioNotFound is returned when a usuario lookup finds nothing.
var ErrUsuarioNotFound = errors.New("usuario not found")

// UsuarioRepo persists staff accounts.
type UsuarioRepo struct{ DB *sql.DB }

func NewUsuarioRepo(db *sql.DB) *UsuarioRepo { return &UsuarioRepo{DB: db} }

// Create inserts a usuario with an already-hashed senha and status "ativo".
func (r *UsuarioRepo) Create(ctx context.Context, u *model.Usuario, senhaHash string) (uint64, error) {
	login := strings.ToLower(strings.TrimSpace(u.Login))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO usuarios (login, senha, tipo, email, nome, cpf, status) VALUES (?, ?, ?, ?, ?, ?, 'ativo')`,
		login, senhaHash, u.Tipo, u.Email, u.Nome, u.CPF)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrLoginExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetAtivoByLogin fetches an active usuario by login; inactive accounts are
// invisible to authentication.
func (r *UsuarioRepo) GetAtivoByLogin(ctx context.Context, login string) (model.Usuario, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u model.Usuario
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, login, senha, tipo, email, nome, cpf, status FROM usuarios WHERE login = ? AND status = 'ativo' LIMIT 1`,
		login).Scan(&u.ID, &u.Login, &u.Senha, &u.Tipo, &u.Email, &u.Nome, &u.CPF, &u.Status)
	if err == sql.ErrNoRows {
		return u, ErrUsuarioNotFound
	}
	return u, err
}

// GetByID fetches a usuario by id.
func (r *UsuarioRepo) GetByID(ctx context.Context, id uint64) (model.Usuario, error) {
	var u model.Usuario
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, login, senha, tipo, email, nome, cpf, status FROM usuarios WHERE id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.Login, &u.Senha, &u.Tipo, &u.Email, &u.Nome, &u.CPF, &u.Status)
	if err == sql.ErrNoRows {
		return u, ErrUsuarioNotFound
	}
	return u, err
}

// ListAll returns every usuario ordered by nome, without senha material.
func (r *UsuarioRepo) ListAll(ctx context.Context) ([]model.Usuario, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nome, login, email, cpf, tipo, status FROM usuarios ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Usuario, 0)
	for rows.Next() {
		var u model.Usuario
		if err := rows.Scan(&u.ID, &u.Nome, &u.Login, &u.Email, &u.CPF, &u.Tipo, &u.Status); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the identity fields of a usuario (admin operation).
func (r *UsuarioRepo) Update(ctx context.Context, id uint64, u *model.Usuario) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE usuarios SET nome = ?, login = ?, email = ?, tipo = ?, cpf = ? WHERE id = ?`,
		u.Nome, strings.ToLower(strings.TrimSpace(u.Login)), u.Email, u.Tipo, u.CPF, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrLoginExists
		}
		return err
	}
	return requireRow(res)
}

// UpdateSenhaByID overwrites the stored senha hash (admin reset).
func (r *UsuarioRepo) UpdateSenhaByID(ctx context.Context, id uint64, senhaHash string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE usuarios SET senha = ? WHERE id = ?`, senhaHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateSenhaByLogin overwrites the stored senha hash for a login.  Also used
// by the login flow to migrate legacy plain-text rows to bcrypt transparently.
func (r *UsuarioRepo) UpdateSenhaByLogin(ctx context.Context, login, senhaHash string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE usuarios SET senha = ? WHERE login = ?`,
		senhaHash, strings.ToLower(strings.TrimSpace(login)))
	return err
}

// UpdateStatus toggles a usuario between "ativo" and "inativo".
func (r *UsuarioRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE usuarios SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps a zero-row update onto ErrUsuarioNotFound.  Updates that
// leave values unchanged still report a matched row under our driver config,
// so zero really means "no such usuario".
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}
