package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockServidorRepo(t *testing.T) (*ServidorRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewServidorRepo(db), mock
}

func TestGetByMatriculaReturnsServidor(t *testing.T) {
	repo, mock := newMockServidorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM servidores WHERE matricula = ? LIMIT 1")).
		WithArgs("12345").
		WillReturnRows(sqlmock.NewRows([]string{"matricula", "nome", "lotacao", "cargo", "unidade_exercicio"}).
			AddRow("12345", "Maria Souza", "Secretaria de Obras", "Engenheira", "Sede"))

	s, err := repo.GetByMatricula(context.Background(), "12345")
	if err != nil {
		t.Fatalf("GetByMatricula: %v", err)
	}
	if s.Nome != "Maria Souza" || s.Lotacao != "Secretaria de Obras" || s.UnidadeExercicio != "Sede" {
		t.Fatalf("unexpected servidor: %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByMatriculaNotFound(t *testing.T) {
	repo, mock := newMockServidorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM servidores WHERE matricula = ? LIMIT 1")).
		WithArgs("99999").
		WillReturnRows(sqlmock.NewRows([]string{"matricula", "nome", "lotacao", "cargo", "unidade_exercicio"}))

	if _, err := repo.GetByMatricula(context.Background(), "99999"); !errors.Is(err, ErrServidorNotFound) {
		t.Fatalf("err = %v, want ErrServidorNotFound", err)
	}
}
