package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/tests"
)

func Test_classApi(t *testing.T) {
	_, token := setup(t)
	turmaA := testutil.CreateClass(t, stores.Classes, "Turma A")
	turmaB := testutil.CreateClass(t, stores.Classes, "Turma B")

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/classes",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "query",
			method:   http.MethodGet,
			path:     "/v1/classes",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []class.Class{turmaA, turmaB}),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/classes/" + turmaB.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, turmaB),
		},
		{
			name:     "retrieve unknown",
			method:   http.MethodGet,
			path:     "/v1/classes/nope",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"class not found"}`),
		},
		{
			name:     "create without name",
			method:   http.MethodPost,
			path:     "/v1/classes",
			body:     []byte(`{"name":"   "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"this field is required"}`),
		},
		{
			name:     "update unknown",
			method:   http.MethodPut,
			path:     "/v1/classes/nope",
			body:     []byte(`{"name":"Turma Z"}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"class not found"}`),
		},
	}
	runHttpTests(t, tests)

	t.Run("create, update & delete", func(t *testing.T) {
		rec := serve(http.MethodPost, "/v1/classes", token, []byte(`{"name":" Turma C "}`))
		requireCode(t, http.StatusCreated, rec)
		var cls class.Class
		unmarshall(t, rec, &cls)
		assert.NotEmpty(t, cls.ID)
		assert.Equal(t, "Turma C", cls.Name)

		rec = serve(http.MethodPut, "/v1/classes/"+cls.ID, token, []byte(`{"name":"Turma C2"}`))
		requireCode(t, http.StatusOK, rec)
		assert.JSONEq(t, string(marshallObj(t, class.Class{ID: cls.ID, Name: "Turma C2"})), rec.Body.String())

		rec = serve(http.MethodDelete, "/v1/classes/"+cls.ID, token)
		requireCode(t, http.StatusNoContent, rec)

		rec = serve(http.MethodGet, "/v1/classes/"+cls.ID, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
