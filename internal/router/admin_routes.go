package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/handler"
	"github.com/dcastrolima/protocolo-municipal/internal/middleware"
	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// RegisterAdmin registers the /v1/admin group: account management and lookup
// vocabulary maintenance. Every route requires the "admin" tipo.
func RegisterAdmin(e *echo.Echo, u *handler.UsuarioHandler, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireTipo(model.TipoAdmin))

	// Usuários.
	g.POST("/usuarios", u.Criar)
	g.GET("/usuarios", u.Listar)
	g.PUT("/usuarios/:id", u.Atualizar)
	g.PUT("/usuarios/:id/senha", u.RedefinirSenha)
	g.PUT("/usuarios/:id/status", u.AtualizarStatus)

	// Tipos de requerimento.
	g.GET("/tipos-requerimento", a.ListarTipos)
	g.POST("/tipos-requerimento", a.CriarTipo)
	g.PUT("/tipos-requerimento/:id/ativo", a.AtivarTipo)

	// Lotações.
	g.GET("/lotacoes", a.ListarLotacoes)
	g.POST("/lotacoes", a.CriarLotacao)
	g.PUT("/lotacoes/:id/ativo", a.AtivarLotacao)
}
