// Package storage opens the gateway selected by core.StoreConfig.Engine.
package storage

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/student"
	"github.com/trezcool/notas/storage/database"
	"github.com/trezcool/notas/storage/database/sqlx"
	"github.com/trezcool/notas/storage/inmem"
	"github.com/trezcool/notas/storage/redisdb"
)

// Stores holds one repository per collection, all backed by the same engine.
type Stores struct {
	Engine     string
	Classes    class.Repository
	Students   student.Repository
	Grades     grade.Repository
	Professors professor.Repository

	closer io.Closer
}

func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open connects to the configured engine.
func Open(ctx context.Context, conf *core.Config) (*Stores, error) {
	switch conf.Store.Engine {
	case core.EngineRedis, "":
		client, err := redisdb.Open(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening redis")
		}
		return &Stores{
			Engine:     core.EngineRedis,
			Classes:    redisdb.NewClassRepository(client),
			Students:   redisdb.NewStudentRepository(client),
			Grades:     redisdb.NewGradeRepository(client),
			Professors: redisdb.NewProfessorRepository(client),
			closer:     client,
		}, nil

	case core.EnginePostgres:
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		return &Stores{
			Engine:     core.EnginePostgres,
			Classes:    sqlxrepos.NewClassRepository(db),
			Students:   sqlxrepos.NewStudentRepository(db),
			Grades:     sqlxrepos.NewGradeRepository(db),
			Professors: sqlxrepos.NewProfessorRepository(db),
			closer:     db,
		}, nil

	case core.EngineMemory:
		return OpenMemory(inmemdb.Open()), nil
	}
	return nil, errors.Errorf("unknown store engine %q", conf.Store.Engine)
}

// Prepare creates and migrates the postgres database; other engines need no setup.
func Prepare(ctx context.Context, conf *core.Config) error {
	if conf.Store.Engine != core.EnginePostgres {
		return nil
	}
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()
	return database.Migrate(db.DB, "up")
}

// OpenMemory wraps db; tests keep db to inject failures.
func OpenMemory(db *inmemdb.DB) *Stores {
	return &Stores{
		Engine:     core.EngineMemory,
		Classes:    inmemdb.NewClassRepository(db),
		Students:   inmemdb.NewStudentRepository(db),
		Grades:     inmemdb.NewGradeRepository(db),
		Professors: inmemdb.NewProfessorRepository(db),
		closer:     nopCloser{},
	}
}
