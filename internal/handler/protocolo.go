package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
	"github.com/dcastrolima/protocolo-municipal/internal/middleware"
	"github.com/dcastrolima/protocolo-municipal/internal/model"
	"github.com/dcastrolima/protocolo-municipal/internal/repository"
	"github.com/dcastrolima/protocolo-municipal/internal/storage"
	"github.com/dcastrolima/protocolo-municipal/internal/utils"
)

// ProtocoloHandler bundles dependencies for the protocolo CRUD endpoints.
// Rdb/CacheCfg are used to purge cached listings after every mutation and may
// be nil/zero when Redis is unavailable.
type ProtocoloHandler struct {
	Protocolos *repository.ProtocoloRepo
	Anexos     *repository.AnexoRepo
	Store      *storage.AnexoStore
	Rdb        *redis.Client
	CacheCfg   config.CacheConfig
}

func NewProtocoloHandler(p *repository.ProtocoloRepo, a *repository.AnexoRepo, s *storage.AnexoStore, rdb *redis.Client, cacheCfg config.CacheConfig) *ProtocoloHandler {
	return &ProtocoloHandler{Protocolos: p, Anexos: a, Store: s, Rdb: rdb, CacheCfg: cacheCfg}
}

func (h *ProtocoloHandler) purge(ctx context.Context) {
	middleware.PurgeCache(ctx, h.Rdb, h.CacheCfg.Prefix)
}

// parseID reads a numeric path parameter. Zero means invalid.
func parseID(c echo.Context, name string) uint64 {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Criar registers a new protocolo.  The client sends the numero it obtained
// from GET /protocolos/ultimo-numero; when two clients race for the same
// numero the UNIQUE index decides, the loser receives 400 with a fixed
// message and is expected to refetch and retry.
func (h *ProtocoloHandler) Criar(c echo.Context) error {
	var p model.Protocolo
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "corpo da requisição inválido"})
	}
	p.Numero = strings.TrimSpace(p.Numero)
	if !utils.ValidNumero(p.Numero) {
		return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "número de protocolo inválido; use o formato NNNN/AAAA"})
	}
	if strings.TrimSpace(p.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "nome do requerente é obrigatório"})
	}
	if p.Status == "" {
		p.Status = model.StatusAberto
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Protocolos.Create(ctx, &p)
	if err != nil {
		if err == repository.ErrNumeroExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"sucesso": false, "mensagem": "Número de protocolo já existe!"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"sucesso": false, "mensagem": "erro ao salvar protocolo"})
	}
	h.purge(ctx)

	return c.JSON(http.StatusCreated, echo.Map{
		"sucesso":         true,
		"mensagem":        "Protocolo salvo com sucesso.",
		"novoProtocoloId": id,
	})
}

// UltimoNumero returns the highest already-issued sequence for the given
// year, so the client can propose the next numero. The value is advisory:
// only the UNIQUE index on numero is authoritative.
func (h *ProtocoloHandler) UltimoNumero(c echo.Context) error {
	ano := time.Now().Year()
	s := c.Param("ano")
	if s == "" {
		s = c.QueryParam("ano")
	}
	if s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1900 || n > 9999 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ano inválido"})
		}
		ano = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ultimo, err := h.Protocolos.UltimoNumero(ctx, ano)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar último número"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ultimo": ultimo})
}

// BuscarPorID returns a full protocolo.
func (h *ProtocoloHandler) BuscarPorID(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Protocolos.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProtocoloNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "protocolo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar protocolo"})
	}
	return c.JSON(http.StatusOK, p)
}

// ListarTodos returns every protocolo in summary form, newest first.
func (h *ProtocoloHandler) ListarTodos(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := h.Protocolos.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar protocolos"})
	}
	return c.JSON(http.StatusOK, lista)
}

// MeusProtocolos lists the protocolos currently assigned to the
// authenticated usuario.
func (h *ProtocoloHandler) MeusProtocolos(c echo.Context) error {
	login, _ := c.Get("login").(string)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "não autenticado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := h.Protocolos.ListByResponsavel(ctx, login)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar protocolos"})
	}
	return c.JSON(http.StatusOK, lista)
}

// AtualizarCampos edits the descriptive fields of a protocolo. Status,
// responsável and numero are untouchable here; transitions go through
// POST /protocolos/atualizar and numero is never regenerated.
func (h *ProtocoloHandler) AtualizarCampos(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var p model.Protocolo
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Protocolos.UpdateCampos(ctx, id, &p); err != nil {
		if err == repository.ErrProtocoloNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "protocolo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar protocolo"})
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

// Excluir removes a protocolo with its historico and anexos permanently.
// There is no soft delete; the numero becomes reusable.  The object keys are
// read before the rows go away, then the stored bytes are removed best-effort
// after the commit: a storage failure leaves an unreferenced object, never a
// dangling row.
func (h *ProtocoloHandler) Excluir(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var paths []string
	if h.Anexos != nil && h.Store != nil {
		var err error
		if paths, err = h.Anexos.StoragePathsByProtocolo(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao excluir protocolo"})
		}
	}

	if err := h.Protocolos.Delete(ctx, id); err != nil {
		if err == repository.ErrProtocoloNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "protocolo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao excluir protocolo"})
	}
	for _, p := range paths {
		_ = h.Store.Remove(ctx, p)
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}
