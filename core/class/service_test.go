package class_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/storage/inmem"
)

func newService() (*class.Service, *inmemdb.DB) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	db := inmemdb.Open()
	return class.NewService(inmemdb.NewClassRepository(db), validate), db
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, db := newService()

	cls, err := svc.Create(ctx, class.NewClass{Name: "  Turma A "})
	require.NoError(t, err)
	assert.NotEmpty(t, cls.ID)
	assert.Equal(t, "Turma A", cls.Name)

	_, err = svc.Create(ctx, class.NewClass{Name: " "})
	assert.True(t, core.IsValidation(err), "%v", err)

	db.SetFailure(errors.New("connection refused"))
	_, err = svc.Create(ctx, class.NewClass{Name: "Turma B"})
	assert.True(t, core.IsStoreUnavailable(err), "%v", err)
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	a, err := svc.Create(ctx, class.NewClass{Name: "Turma A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, class.NewClass{Name: "Turma B"})
	require.NoError(t, err)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []class.Class{a, b}, all)

	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = svc.GetByID(ctx, "")
	assert.True(t, core.IsNotFound(err))

	upd, err := svc.Update(ctx, a.ID, class.UpdateClass{Name: "Turma A1"})
	require.NoError(t, err)
	assert.Equal(t, class.Class{ID: a.ID, Name: "Turma A1"}, upd)

	_, err = svc.Update(ctx, "nope", class.UpdateClass{Name: "X"})
	assert.True(t, core.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.GetByID(ctx, a.ID)
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(svc.Delete(ctx, a.ID)))

	all, err = svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []class.Class{b}, all)
}
