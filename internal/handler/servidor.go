package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/repository"
)

// ServidorHandler exposes the staff-registry lookup that autofills the
// request form.
type ServidorHandler struct {
	Servidores *repository.ServidorRepo
}

func NewServidorHandler(s *repository.ServidorRepo) *ServidorHandler {
	return &ServidorHandler{Servidores: s}
}

// BuscarPorMatricula returns the servidor matching the matrícula in the path.
func (h *ServidorHandler) BuscarPorMatricula(c echo.Context) error {
	matricula := strings.TrimSpace(c.Param("matricula"))
	if matricula == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"mensagem": "matrícula inválida"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Servidores.GetByMatricula(ctx, matricula)
	if err != nil {
		if err == repository.ErrServidorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"mensagem": "Servidor não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"mensagem": "erro ao buscar servidor"})
	}
	return c.JSON(http.StatusOK, s)
}
