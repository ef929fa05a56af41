package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/dcastrolima/protocolo-municipal/internal/repository"
)

// PesquisaHandler serves filtered search and the XLSX export built from the
// same filters.
type PesquisaHandler struct {
	Protocolos *repository.ProtocoloRepo
}

func NewPesquisaHandler(p *repository.ProtocoloRepo) *PesquisaHandler {
	return &PesquisaHandler{Protocolos: p}
}

// filtrosFrom reads the filter query parameters shared by pesquisa, backup
// and dashboard. Empty parameters are simply not applied.
func filtrosFrom(c echo.Context) repository.Filtros {
	return repository.Filtros{
		Numero:     c.QueryParam("numero"),
		Nome:       c.QueryParam("nome"),
		Status:     c.QueryParam("status"),
		Tipo:       c.QueryParam("tipo"),
		Lotacao:    c.QueryParam("lotacao"),
		DataInicio: c.QueryParam("dataInicio"),
		DataFim:    c.QueryParam("dataFim"),
	}
}

// Pesquisar runs the filtered search. All filters combine with AND; no
// filters at all returns everything, most recent solicitação first.
func (h *PesquisaHandler) Pesquisar(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := h.Protocolos.Pesquisar(ctx, filtrosFrom(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao pesquisar protocolos"})
	}
	return c.JSON(http.StatusOK, echo.Map{"protocolos": lista})
}

var backupColunas = []string{
	"Número", "Nome", "Matrícula", "Endereço", "Município", "Bairro", "CEP",
	"Telefone", "CPF", "RG", "Cargo", "Lotação", "Unidade de Exercício",
	"Tipo de Requerimento", "Requer ao", "Data da Solicitação", "Observações",
	"Status", "Responsável",
}

// Backup exports the protocolos matching the filters as an XLSX spreadsheet.
// An empty result is a 404 so the UI can tell the user instead of handing
// over an empty file.
func (h *PesquisaHandler) Backup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	lista, err := h.Protocolos.PesquisarCompleto(ctx, filtrosFrom(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar backup"})
	}
	if len(lista) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Nenhum protocolo encontrado com os filtros informados."})
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Protocolos"
	f.SetSheetName(f.GetSheetName(0), sheet)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar backup"})
	}

	header := make([]interface{}, len(backupColunas))
	for i, col := range backupColunas {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar backup"})
	}

	for i, p := range lista {
		row := []interface{}{
			p.Numero, p.Nome, p.Matricula, p.Endereco, p.Municipio, p.Bairro,
			p.CEP, p.Telefone, p.CPF, p.RG, p.Cargo, p.Lotacao,
			p.UnidadeExercicio, p.TipoRequerimento, p.RequerAo,
			p.DataSolicitacao, p.Observacoes, p.Status, p.Responsavel,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar backup"})
		}
	}
	if err := sw.Flush(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar backup"})
	}

	filename := fmt.Sprintf("backup-protocolos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
