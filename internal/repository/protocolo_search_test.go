package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func resumoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "numero", "nome", "matricula", "tipo_requerimento", "status", "responsavel", "data",
	})
}

func TestPesquisarCombinesFiltersWithAnd(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(nome) LIKE ? AND status = ? AND data_solicitacao >= ?")).
		WithArgs("%silva%", "Aberto", "2025-01-01").
		WillReturnRows(resumoRows().
			AddRow(2, "0002/2025", "Ana Silva", "m-2", "Férias", "Aberto", "joao", "2025-03-10"))

	lista, err := repo.Pesquisar(context.Background(), Filtros{
		Nome:       "Silva",
		Status:     "Aberto",
		DataInicio: "2025-01-01",
	})
	if err != nil {
		t.Fatalf("Pesquisar: %v", err)
	}
	if len(lista) != 1 || lista[0].Nome != "Ana Silva" {
		t.Errorf("unexpected result: %+v", lista)
	}
	expectMet(t, mock)
}

func TestPesquisarWithoutFiltersMatchesAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1")).
		WillReturnRows(resumoRows().
			AddRow(2, "0002/2025", "Ana", "m-2", "Férias", "Aberto", "joao", "2025-03-10").
			AddRow(1, "0001/2025", "Bia", "m-1", "Licença", "Finalizado", "maria", "2025-02-01"))

	lista, err := repo.Pesquisar(context.Background(), Filtros{})
	if err != nil {
		t.Fatalf("Pesquisar: %v", err)
	}
	if len(lista) != 2 {
		t.Errorf("len = %d, want 2", len(lista))
	}
	expectMet(t, mock)
}

func TestPesquisarEmptyResultIsEmptySlice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("numero LIKE ?")).
		WithArgs("%9999%").
		WillReturnRows(resumoRows())

	lista, err := repo.Pesquisar(context.Background(), Filtros{Numero: "9999"})
	if err != nil {
		t.Fatalf("Pesquisar: %v", err)
	}
	if lista == nil || len(lista) != 0 {
		t.Errorf("want non-nil empty slice, got %#v", lista)
	}
	expectMet(t, mock)
}

func TestFiltrosCond(t *testing.T) {
	cases := []struct {
		name     string
		f        Filtros
		wantCond string
		wantArgs int
	}{
		{"empty", Filtros{}, "1=1", 0},
		{"single", Filtros{Status: "Aberto"}, "status = ?", 1},
		{"range", Filtros{DataInicio: "2025-01-01", DataFim: "2025-12-31"},
			"data_solicitacao >= ? AND data_solicitacao <= ?", 2},
		{"all", Filtros{
			Numero: "0456", Nome: "silva", Status: "Aberto", Tipo: "Férias",
			Lotacao: "RH", DataInicio: "2025-01-01", DataFim: "2025-12-31",
		}, "numero LIKE ? AND LOWER(nome) LIKE ? AND status = ? AND tipo_requerimento = ? AND lotacao = ? AND data_solicitacao >= ? AND data_solicitacao <= ?", 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cond, args := c.f.cond()
			if cond != c.wantCond {
				t.Errorf("cond = %q, want %q", cond, c.wantCond)
			}
			if len(args) != c.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), c.wantArgs)
			}
		})
	}
}
