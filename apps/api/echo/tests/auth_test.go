package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/notas/apps/api/echo"
	"github.com/trezcool/notas/tests"
)

func Test_home(t *testing.T) {
	rec := serve(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Notas API!", rec.Body.String())
}

func Test_authApi_login(t *testing.T) {
	prof, _ := setup(t)
	_ = testutil.CreateProfessor(t, stores.Professors, "Gone", "gone@test.br", testutil.Password, true, false)

	creds := func(email, pwd string) []byte {
		return marshallObj(t, map[string]string{"email": email, "password": pwd})
	}
	failed := marshallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name:     "missing credentials",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"this field is required","password":"this field is required"}`),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			body:     creds("nobody@test.br", testutil.Password),
			wantCode: http.StatusBadRequest,
			wantData: failed,
		},
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			body:     creds(prof.Email, "wrong"),
			wantCode: http.StatusBadRequest,
			wantData: failed,
		},
		{
			name:     "inactive account",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			body:     creds("gone@test.br", testutil.Password),
			wantCode: http.StatusBadRequest,
			wantData: failed,
		},
	}
	runHttpTests(t, tests)

	t.Run("success", func(t *testing.T) {
		rec := serve(http.MethodPost, "/v1/auth/login", "", creds(" LIMA@test.br ", testutil.Password))
		requireCode(t, http.StatusOK, rec)

		var resp LoginResponse
		unmarshall(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)

		// the token opens the session
		rec = serve(http.MethodGet, "/v1/session", resp.Token)
		requireCode(t, http.StatusOK, rec)
		var sess SessionResponse
		unmarshall(t, rec, &sess)
		assert.True(t, sess.Authenticated)
		assert.Equal(t, prof.ID, sess.Professor.ID)
		assert.Equal(t, prof.Email, sess.Professor.Email)
		assert.False(t, sess.Professor.LastLogin.IsZero())
		assert.True(t, sess.ExpiresAt.After(time.Now()))
	})
}

func Test_authApi_session(t *testing.T) {
	setup(t)

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/session",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "bad token",
			method:   http.MethodGet,
			path:     "/v1/session",
			token:    "not.a.jwt",
			wantCode: http.StatusUnauthorized,
		},
	}
	runHttpTests(t, tests)
}

func Test_authApi_refreshToken(t *testing.T) {
	prof, token := setup(t)

	t.Run("fresh token", func(t *testing.T) {
		rec := serve(http.MethodPost, "/v1/auth/token-refresh", token)
		requireCode(t, http.StatusOK, rec)
		var resp LoginResponse
		unmarshall(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("refresh expired", func(t *testing.T) {
		claims := app.NewClaims(prof, time.Now().Add(-5*time.Hour).Unix())
		old, err := app.GenerateToken(claims)
		assert.NoError(t, err)

		rec := serve(http.MethodPost, "/v1/auth/token-refresh", old)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"refresh has expired"}`, rec.Body.String())
	})

	t.Run("deactivated account", func(t *testing.T) {
		gone := testutil.CreateProfessor(t, stores.Professors, "Gone", "gone@test.br", testutil.Password, true, false)
		rec := serve(http.MethodPost, "/v1/auth/token-refresh", getToken(t, gone))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"account deactivated"}`, rec.Body.String())
	})
}

func Test_professorMiddleware(t *testing.T) {
	setup(t)

	notProf := testutil.CreateProfessor(t, stores.Professors, "Aux", "aux@test.br", testutil.Password, false, true)
	gone := testutil.CreateProfessor(t, stores.Professors, "Gone", "gone@test.br", testutil.Password, true, false)

	// a token whose subject was never stored
	ghost := app.NewClaims(notProf)
	ghost.Subject = "ghost"
	ghost.IsProfessor = true
	ghostToken, err := app.GenerateToken(ghost)
	assert.NoError(t, err)

	expired := app.NewClaims(gone)
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := app.GenerateToken(expired)
	assert.NoError(t, err)

	tests := []httpTest{
		{
			name:     "not a professor",
			method:   http.MethodGet,
			path:     "/v1/classes",
			token:    getToken(t, notProf),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error":"permission denied"}`),
		},
		{
			name:     "deactivated",
			method:   http.MethodGet,
			path:     "/v1/classes",
			token:    getToken(t, gone),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error":"account deactivated"}`),
		},
		{
			name:     "unknown subject",
			method:   http.MethodGet,
			path:     "/v1/classes",
			token:    ghostToken,
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"error":"professor not authenticated"}`),
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/v1/classes",
			token:    expiredToken,
			wantCode: http.StatusUnauthorized,
		},
	}
	runHttpTests(t, tests)
}
