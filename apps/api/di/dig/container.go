package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/notas/apps/api/echo"
	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/report"
	"github.com/trezcool/notas/core/student"
	emailsvc "github.com/trezcool/notas/services/email"
	logsvc "github.com/trezcool/notas/services/logger"
	"github.com/trezcool/notas/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type repositories struct {
	dig.Out

	Classes    class.Repository
	Students   student.Repository
	Grades     grade.Repository
	Professors professor.Repository
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStores(conf *core.Config, loggerParam DBLoggerParam) *storage.Stores {
	setUp := func() (*storage.Stores, error) {
		ctx := context.Background()
		if err := storage.Prepare(ctx, conf); err != nil {
			return nil, err
		}
		return storage.Open(ctx, conf)
	}

	stores, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s store: %v", conf.Store.Engine, err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("using %s store", stores.Engine))
	return stores
}

func newRepositories(stores *storage.Stores) repositories {
	return repositories{
		Classes:    stores.Classes,
		Students:   stores.Students,
		Grades:     stores.Grades,
		Professors: stores.Professors,
	}
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	professor.RegisterValidators(validate, translator)
	return validate
}

func newStudentService(repo student.Repository, classes class.Repository, validate *validator.Validate) *student.Service {
	return student.NewService(repo, classes, validate)
}

func newGradeService(repo grade.Repository, students student.Repository, validate *validator.Validate) *grade.Service {
	return grade.NewService(repo, students, validate)
}

func newReportService(classes class.Repository, students student.Repository, grades grade.Repository) *report.Service {
	return report.NewService(classes, students, grades)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(newRepositories))
	must(c.Provide(emailsvc.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(professor.NewService))
	must(c.Provide(class.NewService))
	must(c.Provide(newStudentService))
	must(c.Provide(newGradeService))
	must(c.Provide(newReportService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
