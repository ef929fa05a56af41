package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

func newMockUsuarios(t *testing.T) (*UsuarioRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUsuarioRepo(db), mock
}

func TestCreateUsuarioLowercasesLogin(t *testing.T) {
	repo, mock := newMockUsuarios(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO usuarios")).
		WithArgs("joao.silva", "$2a$10$hash", model.TipoComum, "j@pref.gov.br", "João Silva", "123").
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), &model.Usuario{
		Login: "  Joao.Silva ",
		Tipo:  model.TipoComum,
		Email: "j@pref.gov.br",
		Nome:  "João Silva",
		CPF:   "123",
	}, "$2a$10$hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}
	expectMet(t, mock)
}

func TestCreateUsuarioDuplicateLogin(t *testing.T) {
	repo, mock := newMockUsuarios(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO usuarios")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'joao' for key 'usuarios.login'"))

	_, err := repo.Create(context.Background(), &model.Usuario{Login: "joao", Nome: "João"}, "h")
	if !errors.Is(err, ErrLoginExists) {
		t.Fatalf("err = %v, want ErrLoginExists", err)
	}
	expectMet(t, mock)
}

func TestGetAtivoByLoginNotFound(t *testing.T) {
	repo, mock := newMockUsuarios(t)

	mock.ExpectQuery(regexp.QuoteMeta("status = 'ativo'")).
		WithArgs("desconhecido").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "senha", "tipo", "email", "nome", "cpf", "status"}))

	_, err := repo.GetAtivoByLogin(context.Background(), "desconhecido")
	if !errors.Is(err, ErrUsuarioNotFound) {
		t.Fatalf("err = %v, want ErrUsuarioNotFound", err)
	}
	expectMet(t, mock)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockUsuarios(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE usuarios SET status = ? WHERE id = ?")).
		WithArgs("inativo", 77).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), 77, "inativo"); !errors.Is(err, ErrUsuarioNotFound) {
		t.Fatalf("err = %v, want ErrUsuarioNotFound", err)
	}
	expectMet(t, mock)
}
