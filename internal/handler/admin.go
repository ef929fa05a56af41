package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/repository"
)

// AdminHandler manages the lookup vocabularies (tipos de requerimento and
// lotações) offered by the UI. Both tables behave identically, so a single
// handler serves each behind its own LookupRepo.
type AdminHandler struct {
	Tipos    *repository.LookupRepo
	Lotacoes *repository.LookupRepo
}

func NewAdminHandler(tipos, lotacoes *repository.LookupRepo) *AdminHandler {
	return &AdminHandler{Tipos: tipos, Lotacoes: lotacoes}
}

func listAll(c echo.Context, r *repository.LookupRepo) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := r.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar"})
	}
	return c.JSON(http.StatusOK, lista)
}

func listAtivos(c echo.Context, r *repository.LookupRepo) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	nomes, err := r.ListAtivos(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar"})
	}
	return c.JSON(http.StatusOK, nomes)
}

func create(c echo.Context, r *repository.LookupRepo) error {
	var req struct {
		Nome string `json:"nome"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome é obrigatório"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := r.Create(ctx, strings.TrimSpace(req.Nome))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao criar"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"sucesso": true, "id": id})
}

func setAtivo(c echo.Context, r *repository.LookupRepo) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req struct {
		Ativo bool `json:"ativo"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := r.SetAtivo(ctx, id, req.Ativo); err != nil {
		if err == repository.ErrLookupNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registro não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

// Tipos de requerimento.

func (h *AdminHandler) ListarTipos(c echo.Context) error       { return listAll(c, h.Tipos) }
func (h *AdminHandler) ListarTiposAtivos(c echo.Context) error { return listAtivos(c, h.Tipos) }
func (h *AdminHandler) CriarTipo(c echo.Context) error         { return create(c, h.Tipos) }
func (h *AdminHandler) AtivarTipo(c echo.Context) error        { return setAtivo(c, h.Tipos) }

// Lotações.

func (h *AdminHandler) ListarLotacoes(c echo.Context) error       { return listAll(c, h.Lotacoes) }
func (h *AdminHandler) ListarLotacoesAtivas(c echo.Context) error { return listAtivos(c, h.Lotacoes) }
func (h *AdminHandler) CriarLotacao(c echo.Context) error         { return create(c, h.Lotacoes) }
func (h *AdminHandler) AtivarLotacao(c echo.Context) error        { return setAtivo(c, h.Lotacoes) }
