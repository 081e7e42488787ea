package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/notas/core/professor"
)

// professorMiddleware lets through active accounts whose token carries the professor flag.
func professorMiddleware(svc *professor.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsProfessor {
				return errHttpForbidden
			}
			prof, err := getContextProfessor(ctx, svc)
			if err != nil {
				return err
			}
			if !prof.IsActive {
				return errAccountDeactivated
			}
			if !prof.IsProfessor {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
