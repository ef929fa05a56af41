package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

func newMockRepo(t *testing.T) (*ProtocoloRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProtocoloRepo(db), mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateInsertsProtocoloAndFirstHistorico(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO protocolos")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_protocolos")).
		WithArgs(7, model.StatusAberto, "joao", "Protocolo criado").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), &model.Protocolo{
		Numero:      "0456/2025",
		Nome:        "Maria Souza",
		Responsavel: "joao",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	expectMet(t, mock)
}

func TestCreateDuplicateNumeroRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO protocolos")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '0456/2025' for key 'protocolos.numero'"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &model.Protocolo{Numero: "0456/2025", Nome: "Maria"})
	if !errors.Is(err, ErrNumeroExists) {
		t.Fatalf("err = %v, want ErrNumeroExists", err)
	}
	expectMet(t, mock)
}

func TestCreateHistoricoFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO protocolos")).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_protocolos")).
		WillReturnError(errors.New("conexão perdida"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &model.Protocolo{Numero: "0001/2025", Nome: "Maria"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrNumeroExists) {
		t.Fatal("infrastructure failure must not look like a duplicate numero")
	}
	expectMet(t, mock)
}

func TestMovimentarUpdatesStateAndAppendsHistorico(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT numero, status, responsavel FROM protocolos WHERE id = ? FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"numero", "status", "responsavel"}).
			AddRow("0456/2025", "Aberto", "joao"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE protocolos SET status = ?, responsavel = ?, visto = FALSE WHERE id = ?")).
		WithArgs("Em análise", "maria", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_protocolos")).
		WithArgs(5, "Em análise", "carlos", "encaminhado ao RH").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.Movimentar(context.Background(), Movimentacao{
		ProtocoloID:     5,
		NovoStatus:      "Em análise",
		NovoResponsavel: "maria",
		Observacao:      "encaminhado ao RH",
		Ator:            "carlos",
	})
	if err != nil {
		t.Fatalf("Movimentar: %v", err)
	}
	if res.Numero != "0456/2025" || res.StatusAnterior != "Aberto" || res.Responsavel != "maria" || res.Ator != "carlos" {
		t.Errorf("unexpected resultado: %+v", res)
	}
	expectMet(t, mock)
}

func TestMovimentarKeepsResponsavelWhenOmitted(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"numero", "status", "responsavel"}).
			AddRow("0456/2025", "Em análise", "joao"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE protocolos SET")).
		WithArgs("Finalizado", "joao", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// No actor known: the historico entry falls back to the responsável.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_protocolos")).
		WithArgs(5, "Finalizado", "joao", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := repo.Movimentar(context.Background(), Movimentacao{ProtocoloID: 5, NovoStatus: "Finalizado"})
	if err != nil {
		t.Fatalf("Movimentar: %v", err)
	}
	if res.Responsavel != "joao" || res.Ator != "joao" {
		t.Errorf("resultado = %+v, want responsavel and ator kept as joao", res)
	}
	expectMet(t, mock)
}

func TestMovimentarNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Movimentar(context.Background(), Movimentacao{ProtocoloID: 99, NovoStatus: "Aberto"})
	if !errors.Is(err, ErrProtocoloNotFound) {
		t.Fatalf("err = %v, want ErrProtocoloNotFound", err)
	}
	expectMet(t, mock)
}

// Child rows carry foreign keys to protocolos, so the delete must take the
// anexos and historico out inside the same transaction before the protocolo
// row itself.
func TestDeleteRemovesAnexosAndHistoricoThenProtocolo(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM anexos WHERE protocolo_id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM historico_protocolos WHERE protocolo_id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM protocolos WHERE id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	expectMet(t, mock)
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM anexos")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM historico_protocolos")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM protocolos")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), 42); !errors.Is(err, ErrProtocoloNotFound) {
		t.Fatalf("err = %v, want ErrProtocoloNotFound", err)
	}
	expectMet(t, mock)
}

func TestUpdateCamposUpdatesRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE protocolos SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCampos(context.Background(), 9, &model.Protocolo{Nome: "Maria Souza"})
	if err != nil {
		t.Fatalf("UpdateCampos: %v", err)
	}
	expectMet(t, mock)
}

// No pre-select: with clientFoundRows in the DSN a zero RowsAffected already
// means the row does not exist, without a window for it to vanish between a
// lookup and the update.
func TestUpdateCamposNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE protocolos SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCampos(context.Background(), 404, &model.Protocolo{Nome: "Maria Souza"})
	if !errors.Is(err, ErrProtocoloNotFound) {
		t.Fatalf("err = %v, want ErrProtocoloNotFound", err)
	}
	expectMet(t, mock)
}

func TestUltimoNumeroSkipsMalformedRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT numero FROM protocolos WHERE numero LIKE ?")).
		WithArgs("%/2025").
		WillReturnRows(sqlmock.NewRows([]string{"numero"}).
			AddRow("0001/2025").
			AddRow("0456/2025").
			AddRow("importado-sem-numero").
			AddRow("0003/2025"))

	ultimo, err := repo.UltimoNumero(context.Background(), 2025)
	if err != nil {
		t.Fatalf("UltimoNumero: %v", err)
	}
	if ultimo != 456 {
		t.Errorf("ultimo = %d, want 456", ultimo)
	}
	expectMet(t, mock)
}

func TestUltimoNumeroEmptyYear(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT numero FROM protocolos WHERE numero LIKE ?")).
		WithArgs("%/2026").
		WillReturnRows(sqlmock.NewRows([]string{"numero"}))

	ultimo, err := repo.UltimoNumero(context.Background(), 2026)
	if err != nil {
		t.Fatalf("UltimoNumero: %v", err)
	}
	if ultimo != 0 {
		t.Errorf("ultimo = %d, want 0", ultimo)
	}
	expectMet(t, mock)
}
