package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
	"github.com/dcastrolima/protocolo-municipal/internal/handler"
	"github.com/dcastrolima/protocolo-municipal/internal/middleware"
)

// ProtocoloDeps bundles everything the protected protocolo routes need.
type ProtocoloDeps struct {
	Protocolos    *handler.ProtocoloHandler
	Movimentacoes *handler.MovimentacaoHandler
	Pesquisa      *handler.PesquisaHandler
	Dashboard     *handler.DashboardHandler
	Anexos        *handler.AnexoHandler
	Servidores    *handler.ServidorHandler
	Usuarios      *handler.UsuarioHandler
	Admin         *handler.AdminHandler
}

// RegisterProtocolos registers every authenticated endpoint under /v1.  The
// whole group sits behind JWT auth and the Redis token bucket; the response
// cache is applied per-route and only to listings that are identical for
// every usuario — per-user views (meus-protocolos, notificações) and the
// advisory ultimo-numero must never serve stale or cross-user data.
func RegisterProtocolos(e *echo.Echo, d ProtocoloDeps, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// Protocolos.
	g.POST("/protocolos", d.Protocolos.Criar)
	g.GET("/protocolos", d.Protocolos.ListarTodos, cache)
	g.GET("/protocolos/ultimoNumero/:ano", d.Protocolos.UltimoNumero)
	g.GET("/protocolos/pesquisa", d.Pesquisa.Pesquisar, cache)
	g.GET("/protocolos/backup", d.Pesquisa.Backup)
	g.GET("/protocolos/dashboard-stats", d.Dashboard.Stats, cache)
	g.GET("/protocolos/servidor/:matricula", d.Servidores.BuscarPorMatricula)
	g.GET("/protocolos/notificacoes", d.Dashboard.Notificacoes)
	g.POST("/protocolos/notificacoes/ler", d.Dashboard.MarcarVistos)
	g.POST("/protocolos/atualizar", d.Movimentacoes.Atualizar)
	g.GET("/protocolos/:id", d.Protocolos.BuscarPorID)
	g.PUT("/protocolos/:id", d.Protocolos.AtualizarCampos)
	g.DELETE("/protocolos/:id", d.Protocolos.Excluir)
	g.GET("/protocolos/historico/:id", d.Movimentacoes.ListarHistorico)
	g.GET("/meus-protocolos", d.Protocolos.MeusProtocolos)

	// Anexos.
	g.POST("/protocolos/:id/anexos", d.Anexos.Upload)
	g.GET("/protocolos/:id/anexos", d.Anexos.Listar)
	g.GET("/anexos/:anexoId/download", d.Anexos.Download)
	g.DELETE("/anexos/:anexoId", d.Anexos.Excluir)

	// Self-service senha change and the active lookup vocabularies the
	// registration form offers.
	g.POST("/minha-senha", d.Usuarios.MinhaSenha)
	g.GET("/tipos-requerimento", d.Admin.ListarTiposAtivos, cache)
	g.GET("/lotacoes", d.Admin.ListarLotacoesAtivas, cache)
}
