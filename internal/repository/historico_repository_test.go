package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListByProtocoloNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewHistoricoRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY data_movimentacao DESC, id DESC")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "protocolo_id", "status", "responsavel", "observacao", "data"}).
			AddRow(3, 5, "Finalizado", "maria", "", "2025-03-12 10:00:00").
			AddRow(1, 5, "Aberto", "joao", "Protocolo criado", "2025-03-10 08:30:00"))

	historico, err := repo.ListByProtocolo(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByProtocolo: %v", err)
	}
	if len(historico) != 2 {
		t.Fatalf("len = %d, want 2", len(historico))
	}
	if historico[0].Status != "Finalizado" || historico[1].Observacao != "Protocolo criado" {
		t.Errorf("unexpected ordering: %+v", historico)
	}
	expectMet(t, mock)
}

func TestListByProtocoloUnknownIDIsEmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewHistoricoRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM historico_protocolos")).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "protocolo_id", "status", "responsavel", "observacao", "data"}))

	historico, err := repo.ListByProtocolo(context.Background(), 999)
	if err != nil {
		t.Fatalf("ListByProtocolo: %v", err)
	}
	if historico == nil || len(historico) != 0 {
		t.Errorf("want non-nil empty slice, got %#v", historico)
	}
	expectMet(t, mock)
}
