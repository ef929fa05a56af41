package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/utils"
)

const testSecret = "segredo-de-teste"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/v1/protocolos", func(c echo.Context) error {
		login, _ := c.Get("login").(string)
		return c.JSON(http.StatusOK, echo.Map{"login": login})
	}, mw...)
	return e
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "joao", "comum", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/protocolos", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer nao-e-um-jwt"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/protocolos", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("outro-segredo", "joao", "comum", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/protocolos", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireTipoBlocksNonAdmin(t *testing.T) {
	comum, _ := utils.NewAccessToken(testSecret, "joao", "comum", 5)
	admin, _ := utils.NewAccessToken(testSecret, "chefe", "admin", 5)

	e := protectedEcho(JWTAuth(testSecret), RequireTipo("admin"))

	req := httptest.NewRequest(http.MethodGet, "/v1/protocolos", nil)
	req.Header.Set("Authorization", "Bearer "+comum.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("comum: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/protocolos", nil)
	req.Header.Set("Authorization", "Bearer "+admin.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}
