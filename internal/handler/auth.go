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

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Usuarios *repository.UsuarioRepo
	Tokens   *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UsuarioRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Usuarios: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Login string `json:"login"`
	Nome  string `json:"nome"`
	Tipo  string `json:"tipo"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Login verifies the credentials of an active usuario and returns a token
// pair.  Legacy rows store the senha in plain text; those are compared
// directly and re-hashed with bcrypt on the first successful login, so the
// table converges to hashed-only without a migration step.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo da requisição inválido"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Senha == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login e senha são obrigatórios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usuarios.GetAtivoByLogin(ctx, req.Login)
	if err != nil {
		if err == repository.ErrUsuarioNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário ou senha inválidos"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao consultar usuário"})
	}

	if utils.IsBcryptHash(u.Senha) {
		if !utils.VerifyPassword(u.Senha, req.Senha) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário ou senha inválidos"})
		}
	} else {
		if u.Senha != req.Senha {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário ou senha inválidos"})
		}
		// Upgrade the stored plain-text senha. A failure here must not block
		// the login; the next one retries.
		if hash, herr := utils.HashPassword(req.Senha, h.Cfg.BcryptCost); herr == nil {
			_ = h.Usuarios.UpdateSenhaByLogin(ctx, u.Login, hash)
		}
	}

	return h.issuePair(c, ctx, u)
}

// Refresh exchanges a valid refresh token for a new pair, rotating the old
// one out. Rotation means a stolen refresh token works at most once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token é obrigatório"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token inválido ou expirado"})
	}
	u, err := h.Usuarios.GetByID(ctx, uid)
	if err != nil || u.Status != "ativo" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário inativo"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao rotacionar token"})
	}
	return h.issuePair(c, ctx, u)
}

// Logout revokes the presented refresh token. Access tokens simply expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token é obrigatório"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao revogar token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}

// Me returns the profile of the authenticated usuario.
func (h *AuthHandler) Me(c echo.Context) error {
	login, _ := c.Get("login").(string)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "não autenticado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usuarios.GetAtivoByLogin(ctx, login)
	if err != nil {
		if err == repository.ErrUsuarioNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário inativo"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao consultar usuário"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u model.Usuario) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Login, u.Tipo, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao emitir access token"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao emitir refresh token"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha ao salvar refresh token"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Login: u.Login, Nome: u.Nome, Tipo: u.Tipo},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}
