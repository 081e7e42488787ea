package echoapi

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/notas/core"
)

var (
	orderingParam = "ordering"
	searchParam   = "search"
)

type Ordering struct {
	Orderings []core.Ordering
}

// Bind parses the ordering query param; fields rejected by isKey fail validation.
func (ord *Ordering) Bind(ctx echo.Context, isKey func(string) bool) error {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}
	for _, o := range core.ParseOrdering(val) {
		if !isKey(o.Field) {
			return core.NewValidationError(nil, core.FieldError{
				Field: orderingParam,
				Error: fmt.Sprintf("unknown sort key %q", o.Field),
			})
		}
		ord.Orderings = append(ord.Orderings, o)
	}
	return nil
}
