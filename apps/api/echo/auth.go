package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/professor"
)

var (
	contextTokenKey     = "professorToken"
	contextProfessorKey = "professor"
	tokenAudience       = "Notas"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	IsProfessor  bool   `json:"is_professor,omitempty"`
}

// NewClaims returns the claims of a fresh session for prof. origIat keeps the first login time on refresh.
func (s *Server) NewClaims(prof professor.Professor, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.deps.Conf.AppName,
			Subject:   prof.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(s.deps.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         prof.Name,
		Email:        prof.Email,
		IsProfessor:  prof.IsProfessor,
	}
}

// GenerateToken generates a signed JWT token string representing the professor Claims.
func (s *Server) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func contextProfessor(ctx echo.Context) (professor.Professor, bool) {
	prof, ok := ctx.Get(contextProfessorKey).(professor.Professor)
	return prof, ok
}

// getContextProfessor loads the professor of the request claims once per request.
func getContextProfessor(ctx echo.Context, svc *professor.Service) (professor.Professor, error) {
	if prof, ok := contextProfessor(ctx); ok {
		return prof, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return professor.Professor{}, err
	}
	prof, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if core.IsNotFound(err) {
			return professor.Professor{}, errUnauthorized
		}
		return professor.Professor{}, errors.Wrap(err, "finding professor by ID")
	}
	ctx.Set(contextProfessorKey, prof)
	return prof, nil
}

type (
	LoginResponse struct {
		Token string `json:"token"`
	}

	// SessionResponse is the read-only view of the current session.
	SessionResponse struct {
		Authenticated bool                `json:"authenticated"`
		Professor     professor.Professor `json:"professor"`
		ExpiresAt     time.Time           `json:"expires_at"`
	}
)

type authApi struct {
	s   *Server
	svc *professor.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := authApi{s: s, svc: s.deps.ProfessorSvc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)

	g.GET("/session", api.session, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data professor.LoginCredentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginCredentials")
	}

	prof, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == professor.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.s.GenerateToken(api.s.NewClaims(prof))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	prof, err := getContextProfessor(ctx, api.svc)
	if err != nil {
		return err
	}
	if !prof.IsActive {
		return errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.s.deps.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	token, err := api.s.GenerateToken(api.s.NewClaims(prof, claims.OrigIssuedAt))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) session(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	prof, err := getContextProfessor(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		Professor:     prof,
		ExpiresAt:     time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}
