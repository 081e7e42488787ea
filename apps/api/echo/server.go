package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/report"
	"github.com/trezcool/notas/core/student"
)

// Deps is everything the API needs; filled by the dig container or by hand in tests.
type Deps struct {
	dig.In

	Conf         *core.Config
	Logger       core.Logger
	Validate     *validator.Validate
	Translator   ut.Translator
	MailSvc      core.EmailService
	ProfessorSvc *professor.Service
	ClassSvc     *class.Service
	StudentSvc   *student.Service
	GradeSvc     *grade.Service
	ReportSvc    *report.Service
}

type Server struct {
	deps      Deps
	app       *echo.Echo
	jwtConfig middleware.JWTConfig
	shutdown  chan os.Signal
	errors    chan error
}

var _ http.Handler = (*Server)(nil)

func NewServer(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(deps.Conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
	if !deps.Conf.TestMode {
		signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
	}))

	s.app.Validator = &structValidator{validate: s.deps.Validate}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwtConfig)
	prof := professorMiddleware(s.deps.ProfessorSvc)

	registerAuthAPI(v1, jwt, s)
	registerClassAPI(v1, s.deps.ClassSvc, jwt, prof)
	registerStudentAPI(v1, s.deps.StudentSvc, jwt, prof)
	registerGradeAPI(v1, s.deps.GradeSvc, jwt, prof)
	registerReportAPI(v1, s.deps.ReportSvc, s.deps.MailSvc, s.deps.Logger, jwt, prof)
}

// Start blocks until the server stops; failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// structValidator lets handlers call ctx.Validate on request payloads.
type structValidator struct {
	validate *validator.Validate
}

func (sv *structValidator) Validate(i interface{}) error {
	return sv.validate.Struct(i)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Notas API!")
}
