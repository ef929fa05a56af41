package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
	"github.com/dcastrolima/protocolo-municipal/internal/middleware"
	"github.com/dcastrolima/protocolo-municipal/internal/queue"
	"github.com/dcastrolima/protocolo-municipal/internal/repository"
	queue_publisher "github.com/dcastrolima/protocolo-municipal/internal/service"
)

// MovimentacaoHandler serves the status/responsável transition endpoint and
// the historico listing.
type MovimentacaoHandler struct {
	Protocolos *repository.ProtocoloRepo
	Historico  *repository.HistoricoRepo
	Rdb        *redis.Client
	CacheCfg   config.CacheConfig
}

func NewMovimentacaoHandler(p *repository.ProtocoloRepo, hi *repository.HistoricoRepo, rdb *redis.Client, cacheCfg config.CacheConfig) *MovimentacaoHandler {
	return &MovimentacaoHandler{Protocolos: p, Historico: hi, Rdb: rdb, CacheCfg: cacheCfg}
}

type movimentacaoReq struct {
	ProtocoloID     uint64 `json:"protocoloId"`
	NovoStatus      string `json:"novoStatus"`
	NovoResponsavel string `json:"novoResponsavel"`
	Observacao      string `json:"observacao"`
}

// Atualizar applies one movimentação: new status, optional new responsável,
// optional observação. State update and ledger append commit together in the
// repository; after the commit the handler publishes the movimentado event
// and purges cached listings, both best effort.
func (h *MovimentacaoHandler) Atualizar(c echo.Context) error {
	var req movimentacaoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "corpo da requisição inválido"})
	}
	req.NovoStatus = strings.TrimSpace(req.NovoStatus)
	if req.ProtocoloID == 0 || req.NovoStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "protocoloId e novoStatus são obrigatórios"})
	}

	ator, _ := c.Get("login").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Protocolos.Movimentar(ctx, repository.Movimentacao{
		ProtocoloID:     req.ProtocoloID,
		NovoStatus:      req.NovoStatus,
		NovoResponsavel: strings.TrimSpace(req.NovoResponsavel),
		Observacao:      req.Observacao,
		Ator:            ator,
	})
	if err != nil {
		if err == repository.ErrProtocoloNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"sucesso": false, "mensagem": "protocolo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"sucesso": false, "mensagem": "erro ao atualizar protocolo"})
	}

	middleware.PurgeCache(ctx, h.Rdb, h.CacheCfg.Prefix)

	// Best effort: a broker outage must not fail the movimentação.
	_ = queue_publisher.PublishProtocoloMovimentado(ctx, queue.ProtocoloMovimentadoEvent{
		ProtocoloID:    req.ProtocoloID,
		Numero:         res.Numero,
		StatusAnterior: res.StatusAnterior,
		NovoStatus:     res.NovoStatus,
		Responsavel:    res.Responsavel,
		Ator:           res.Ator,
		Observacao:     req.Observacao,
		MovimentadoEm:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"sucesso": true, "mensagem": "Protocolo atualizado com sucesso."})
}

// ListarHistorico returns the movimentação ledger of one protocolo, newest
// first. An unknown id yields an empty list, not 404.
func (h *MovimentacaoHandler) ListarHistorico(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	historico, err := h.Historico.ListByProtocolo(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar histórico"})
	}
	return c.JSON(http.StatusOK, echo.Map{"historico": historico})
}
