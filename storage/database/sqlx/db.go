package sqlxrepos

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
)

// trapErr maps "no rows" to notFound and everything else to StoreUnavailable.
func trapErr(err error, notFound error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	}
	return core.NewStoreUnavailableError(err, op)
}

// trapAffected returns notFound when a write touched no row.
func trapAffected(res sql.Result, notFound error, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreUnavailableError(err, op)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
