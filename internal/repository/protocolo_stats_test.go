package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

func TestDashboardStatsDefaultWindow(t *testing.T) {
	repo, mock := newMockRepo(t)

	// No DataInicio: "novos" falls back to the last seven days.
	mock.ExpectQuery(regexp.QuoteMeta("DATE_SUB(CURDATE(), INTERVAL 7 DAY)")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(4))
	// Stale-open alarm: fixed 15-day threshold, terminal statuses excluded.
	mock.ExpectQuery(regexp.QuoteMeta("DATE_SUB(CURDATE(), INTERVAL 15 DAY)")).
		WithArgs(model.StatusFinalizado, model.StatusConcluido).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("status IN (?, ?)")).
		WithArgs(model.StatusFinalizado, model.StatusConcluido).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY tipo_requerimento ORDER BY total DESC LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"tipo_requerimento", "total"}).
			AddRow("Férias", 6).
			AddRow("Licença", 3))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
			AddRow("Aberto", 5).
			AddRow("Finalizado", 10))
	mock.ExpectQuery(regexp.QuoteMeta("DATE_SUB(CURDATE(), INTERVAL 30 DAY)")).
		WillReturnRows(sqlmock.NewRows([]string{"intervalo", "total"}).
			AddRow("2025-03-10", 2).
			AddRow("2025-03-11", 3))

	stats, err := repo.DashboardStats(context.Background(), DashboardOpcoes{})
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.NovosNoPeriodo != 4 || stats.PendentesAntigos != 2 || stats.TotalFinalizados != 10 {
		t.Errorf("counters = %d/%d/%d, want 4/2/10",
			stats.NovosNoPeriodo, stats.PendentesAntigos, stats.TotalFinalizados)
	}
	if len(stats.TopTipos) != 2 || stats.TopTipos[0].Tipo != "Férias" {
		t.Errorf("topTipos = %+v", stats.TopTipos)
	}
	if len(stats.EvolucaoProtocolos) != 2 {
		t.Errorf("evolucao = %+v", stats.EvolucaoProtocolos)
	}
	expectMet(t, mock)
}

func TestDashboardStatsMonthlyEvolucao(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(id) FROM protocolos")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("INTERVAL 15 DAY")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("status IN (?, ?)")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"tipo_requerimento", "total"}))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}))
	// "all" period with month buckets: no WHERE window, '%Y-%m' grouping.
	mock.ExpectQuery(regexp.QuoteMeta("DATE_FORMAT(data_solicitacao, '%Y-%m')")).
		WillReturnRows(sqlmock.NewRows([]string{"intervalo", "total"}).
			AddRow("2025-01", 12).
			AddRow("2025-02", 20))

	stats, err := repo.DashboardStats(context.Background(), DashboardOpcoes{
		EvolucaoPeriodo:     "all",
		EvolucaoAgrupamento: "month",
	})
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if len(stats.EvolucaoProtocolos) != 2 || stats.EvolucaoProtocolos[1].Intervalo != "2025-02" {
		t.Errorf("evolucao = %+v", stats.EvolucaoProtocolos)
	}
	expectMet(t, mock)
}
