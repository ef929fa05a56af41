package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireTipo returns a middleware function that enforces that the
// authenticated user has one of the specified account types.  The values
// accepted should correspond to the JWT's "tipo" claim.  If the user's tipo
// is not in the allowed set, the request is aborted with a 403 Forbidden
// response.  It assumes a previous middleware has extracted the tipo into
// the context under the key "tipo".
func RequireTipo(tipos ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(tipos))
	for _, t := range tipos {
		allowed[t] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("tipo")
			tipo, ok := v.(string)
			if !ok || !allowed[tipo] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "acesso negado"})
			}
			return next(c)
		}
	}
}
