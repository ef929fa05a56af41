package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/repository"
)

// DashboardHandler serves the aggregate statistics endpoint and the
// visto-based notification counters.
type DashboardHandler struct {
	Protocolos *repository.ProtocoloRepo
}

func NewDashboardHandler(p *repository.ProtocoloRepo) *DashboardHandler {
	return &DashboardHandler{Protocolos: p}
}

// Stats computes the dashboard aggregates. The filter parameters narrow the
// counting queries; evolucaoPeriodo/evolucaoAgrupamento shape the creation
// time series.
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Protocolos.DashboardStats(ctx, repository.DashboardOpcoes{
		Filtros:             filtrosFrom(c),
		EvolucaoPeriodo:     c.QueryParam("evolucaoPeriodo"),
		EvolucaoAgrupamento: c.QueryParam("evolucaoAgrupamento"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao calcular estatísticas"})
	}
	return c.JSON(http.StatusOK, stats)
}

// Notificacoes returns how many protocolos assigned to the authenticated
// usuario moved since they last looked.
func (h *DashboardHandler) Notificacoes(c echo.Context) error {
	login, _ := c.Get("login").(string)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "não autenticado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Protocolos.CountNaoVistos(ctx, login)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar notificações"})
	}
	return c.JSON(http.StatusOK, echo.Map{"naoVistos": total})
}

// MarcarVistos clears the notification counter by marking every protocolo
// assigned to the usuario as visto.
func (h *DashboardHandler) MarcarVistos(c echo.Context) error {
	login, _ := c.Get("login").(string)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "não autenticado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Protocolos.MarcarVistos(ctx, login); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao marcar notificações"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}
