package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/notas/core/student"
	"github.com/trezcool/notas/tests"
)

func Test_studentApi(t *testing.T) {
	_, token := setup(t)
	turmaA := testutil.CreateClass(t, stores.Classes, "Turma A")
	turmaB := testutil.CreateClass(t, stores.Classes, "Turma B")
	ana := testutil.CreateStudent(t, stores.Students, "Ana", turmaA.ID)
	bruno := testutil.CreateStudent(t, stores.Students, "Bruno", turmaB.ID)
	orphan := testutil.CreateStudent(t, stores.Students, "Caio", "deleted-class")

	tests := []httpTest{
		{
			name:     "query all",
			method:   http.MethodGet,
			path:     "/v1/students",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []student.Listing{
				{Student: ana, ClassName: "Turma A"},
				{Student: bruno, ClassName: "Turma B"},
				{Student: orphan},
			}),
		},
		{
			name:     "query by class",
			method:   http.MethodGet,
			path:     "/v1/students?class_id=" + turmaB.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []student.Listing{{Student: bruno, ClassName: "Turma B"}}),
		},
		{
			name:     "query empty class",
			method:   http.MethodGet,
			path:     "/v1/students?class_id=none",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/students/" + ana.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ana),
		},
		{
			name:     "create in unknown class",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"name":"Duda","class_id":"nope"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"class_id":"selected class does not exist"}`),
		},
		{
			name:     "create without fields",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"this field is required","class_id":"this field is required"}`),
		},
		{
			name:     "delete unknown",
			method:   http.MethodDelete,
			path:     "/v1/students/nope",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error":"student not found"}`),
		},
	}
	runHttpTests(t, tests)

	t.Run("create, move & delete", func(t *testing.T) {
		rec := serve(http.MethodPost, "/v1/students", token, marshallObj(t, student.NewStudent{Name: "Duda", ClassID: turmaA.ID}))
		requireCode(t, http.StatusCreated, rec)
		var duda student.Student
		unmarshall(t, rec, &duda)
		assert.NotEmpty(t, duda.ID)
		assert.Equal(t, turmaA.ID, duda.ClassID)

		rec = serve(http.MethodPut, "/v1/students/"+duda.ID, token, marshallObj(t, student.UpdateStudent{Name: "Duda", ClassID: turmaB.ID}))
		requireCode(t, http.StatusOK, rec)

		rec = serve(http.MethodGet, "/v1/students?class_id="+turmaB.ID, token)
		requireCode(t, http.StatusOK, rec)
		var listings []student.Listing
		unmarshall(t, rec, &listings)
		assert.Len(t, listings, 2)

		rec = serve(http.MethodDelete, "/v1/students/"+duda.ID, token)
		requireCode(t, http.StatusNoContent, rec)
	})
}
