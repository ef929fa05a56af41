package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
	"github.com/dcastrolima/protocolo-municipal/internal/model"
	"github.com/dcastrolima/protocolo-municipal/internal/repository"
	"github.com/dcastrolima/protocolo-municipal/internal/utils"
)

// UsuarioHandler serves the admin-only account management endpoints plus the
// self-service password change.
type UsuarioHandler struct {
	Cfg      config.Config
	Usuarios *repository.UsuarioRepo
	Tokens   *repository.TokenRepo
}

func NewUsuarioHandler(cfg config.Config, u *repository.UsuarioRepo, t *repository.TokenRepo) *UsuarioHandler {
	return &UsuarioHandler{Cfg: cfg, Usuarios: u, Tokens: t}
}

type usuarioReq struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
	Tipo  string `json:"tipo"`
	Email string `json:"email"`
	Nome  string `json:"nome"`
	CPF   string `json:"cpf"`
}

func normalizaTipo(tipo string) string {
	if strings.ToLower(strings.TrimSpace(tipo)) == model.TipoAdmin {
		return model.TipoAdmin
	}
	return model.TipoComum
}

// Criar registers a new usuario with a bcrypt-hashed senha.
func (h *UsuarioHandler) Criar(c echo.Context) error {
	var req usuarioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Senha == "" || strings.TrimSpace(req.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login, senha e nome são obrigatórios"})
	}

	hash, err := utils.HashPassword(req.Senha, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao processar senha"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Usuarios.Create(ctx, &model.Usuario{
		Login: req.Login,
		Tipo:  normalizaTipo(req.Tipo),
		Email: strings.TrimSpace(req.Email),
		Nome:  strings.TrimSpace(req.Nome),
		CPF:   strings.TrimSpace(req.CPF),
	}, hash)
	if err != nil {
		if err == repository.ErrLoginExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "login já existe"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao criar usuário"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"sucesso": true, "id": id})
}

// Listar returns every usuario, ordered by nome.
func (h *UsuarioHandler) Listar(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := h.Usuarios.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar usuários"})
	}
	return c.JSON(http.StatusOK, lista)
}

// Atualizar edits profile fields of a usuario. Senha and status have their
// own endpoints.
func (h *UsuarioHandler) Atualizar(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req usuarioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}
	if strings.TrimSpace(req.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome é obrigatório"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Usuarios.Update(ctx, id, &model.Usuario{
		Tipo:  normalizaTipo(req.Tipo),
		Email: strings.TrimSpace(req.Email),
		Nome:  strings.TrimSpace(req.Nome),
		CPF:   strings.TrimSpace(req.CPF),
	})
	if err != nil {
		if err == repository.ErrUsuarioNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar usuário"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

type senhaReq struct {
	SenhaAtual string `json:"senhaAtual"`
	NovaSenha  string `json:"novaSenha"`
}

// RedefinirSenha lets an admin set a new senha for any usuario, revoking
// that usuario's refresh tokens so old sessions cannot outlive the reset.
func (h *UsuarioHandler) RedefinirSenha(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req senhaReq
	if err := c.Bind(&req); err != nil || req.NovaSenha == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "novaSenha é obrigatória"})
	}

	hash, err := utils.HashPassword(req.NovaSenha, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao processar senha"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Usuarios.UpdateSenhaByID(ctx, id, hash); err != nil {
		if err == repository.ErrUsuarioNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao redefinir senha"})
	}
	_ = h.Tokens.RevokeAllForUsuario(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

// MinhaSenha lets the authenticated usuario change their own senha after
// proving the current one.
func (h *UsuarioHandler) MinhaSenha(c echo.Context) error {
	login, _ := c.Get("login").(string)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "não autenticado"})
	}
	var req senhaReq
	if err := c.Bind(&req); err != nil || req.SenhaAtual == "" || req.NovaSenha == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "senhaAtual e novaSenha são obrigatórias"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usuarios.GetAtivoByLogin(ctx, login)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário inativo"})
	}

	ok := false
	if utils.IsBcryptHash(u.Senha) {
		ok = utils.VerifyPassword(u.Senha, req.SenhaAtual)
	} else {
		ok = u.Senha == req.SenhaAtual
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "senha atual incorreta"})
	}

	hash, err := utils.HashPassword(req.NovaSenha, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao processar senha"})
	}
	if err := h.Usuarios.UpdateSenhaByID(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar senha"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

// AtualizarStatus activates or deactivates a usuario. Deactivation also
// revokes refresh tokens, which is what actually ends the sessions.
func (h *UsuarioHandler) AtualizarStatus(c echo.Context) error {
	id := parseID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}
	if req.Status != "ativo" && req.Status != "inativo" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status deve ser 'ativo' ou 'inativo'"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Usuarios.UpdateStatus(ctx, id, req.Status); err != nil {
		if err == repository.ErrUsuarioNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar status"})
	}
	if req.Status == "inativo" {
		_ = h.Tokens.RevokeAllForUsuario(ctx, id)
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}
