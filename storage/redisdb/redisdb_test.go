package redisdb

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/student"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestOpen(t *testing.T) {
	srv := miniredis.RunT(t)
	conf := core.NewTestConfig()
	conf.Redis.Addr = srv.Addr()

	client, err := Open(context.Background(), conf)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestClassRepository(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	repo := NewClassRepository(client)

	c1, err := repo.CreateClass(ctx, class.Class{Name: "1º A"})
	require.NoError(t, err)
	c2, err := repo.CreateClass(ctx, class.Class{Name: "1º B"})
	require.NoError(t, err)
	assert.NotEmpty(t, c1.ID)
	assert.NotEqual(t, c1.ID, c2.ID)

	classes, err := repo.QueryClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []class.Class{c1, c2}, classes)

	c1.Name = "2º A"
	_, err = repo.UpdateClass(ctx, c1)
	require.NoError(t, err)
	got, err := repo.GetClass(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, c1, got)

	require.NoError(t, repo.DeleteClass(ctx, c1.ID))
	_, err = repo.GetClass(ctx, c1.ID)
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(repo.DeleteClass(ctx, c1.ID)))
	_, err = repo.UpdateClass(ctx, class.Class{ID: "nope", Name: "x"})
	assert.True(t, core.IsNotFound(err))

	classes, err = repo.QueryClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []class.Class{c2}, classes)
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	repo := NewStudentRepository(client)

	ana, err := repo.CreateStudent(ctx, student.Student{Name: "Ana", ClassID: "c1"})
	require.NoError(t, err)
	bia, err := repo.CreateStudent(ctx, student.Student{Name: "Bia", ClassID: "c2"})
	require.NoError(t, err)
	caio, err := repo.CreateStudent(ctx, student.Student{Name: "Caio", ClassID: "c1"})
	require.NoError(t, err)

	all, err := repo.QueryStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []student.Student{ana, bia, caio}, all)

	c1, err := repo.QueryStudents(ctx, student.QueryFilter{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, []student.Student{ana, caio}, c1)

	// moving a student keeps its rank
	ana.ClassID = "c2"
	_, err = repo.UpdateStudent(ctx, ana)
	require.NoError(t, err)
	c2, err := repo.QueryStudents(ctx, student.QueryFilter{ClassID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, []student.Student{ana, bia}, c2)
	c1, err = repo.QueryStudents(ctx, student.QueryFilter{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, []student.Student{caio}, c1)

	require.NoError(t, repo.DeleteStudent(ctx, bia.ID))
	_, err = repo.GetStudent(ctx, bia.ID)
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(repo.DeleteStudent(ctx, bia.ID)))
	_, err = repo.UpdateStudent(ctx, student.Student{ID: "nope", Name: "x", ClassID: "c1"})
	assert.True(t, core.IsNotFound(err))
}

func TestGradeRepository_UpsertGrades(t *testing.T) {
	ctx := context.Background()
	srv, client := newClient(t)
	repo := NewGradeRepository(client)

	stamp := time.Date(2024, 5, 2, 10, 30, 0, 123456000, time.UTC)
	srv.SetTime(stamp)

	ana := grade.NewPlaceholder("ana", "C1")
	ana.Work, ana.Exam1, ana.Qualitative = 8, 10, "Bom"
	ana.Recalculate()
	bia := grade.NewPlaceholder("bia", "C1")
	bia.LastUpdated = time.Unix(1, 0) // discarded

	saved, err := repo.UpsertGrades(ctx, []grade.Grade{ana, bia})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, g := range saved {
		assert.Equal(t, stamp, g.LastUpdated)
	}

	got, err := repo.QueryGradesByIDs(ctx, []string{"ana", "bia", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	ana.LastUpdated = stamp
	assert.Equal(t, ana, got[0])
	assert.Equal(t, 4.5, got[0].Mean)
	assert.Equal(t, 18.0, got[0].Sum)

	// replace, not merge
	later := stamp.Add(time.Minute)
	srv.SetTime(later)
	replacement := grade.NewPlaceholder("ana", "C1")
	replacement.Exam2 = 2.5
	replacement.Recalculate()
	_, err = repo.UpsertGrades(ctx, []grade.Grade{replacement})
	require.NoError(t, err)

	got, err = repo.QueryGradesByIDs(ctx, []string{"ana"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	replacement.LastUpdated = later
	assert.Equal(t, replacement, got[0])

	all, err := repo.QueryGrades(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ana", all[0].ID) // first save order
	assert.Equal(t, "bia", all[1].ID)
}

func TestGradeRepository_unavailable(t *testing.T) {
	ctx := context.Background()
	srv, client := newClient(t)
	repo := NewGradeRepository(client)

	got, err := repo.QueryGradesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	srv.Close()
	_, err = repo.UpsertGrades(ctx, []grade.Grade{grade.NewPlaceholder("s1", "c1")})
	assert.True(t, core.IsStoreUnavailable(err))
	_, err = repo.QueryGradesByIDs(ctx, []string{"s1"})
	assert.True(t, core.IsStoreUnavailable(err))

	require.NoError(t, srv.Restart())
	got, err = repo.QueryGradesByIDs(ctx, []string{"s1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfessorRepository(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	repo := NewProfessorRepository(client)

	now := time.Now().UTC()
	prof := professor.Professor{Name: "Prof", Email: "prof@test.br", IsProfessor: true, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, prof.SetPassword("Xk9#mPq2!vL"))

	prof, err := repo.CreateProfessor(ctx, prof)
	require.NoError(t, err)
	_, err = repo.CreateProfessor(ctx, professor.Professor{Email: "prof@test.br"})
	assert.Equal(t, professor.ErrEmailExists, err)

	got, err := repo.GetProfessorByEmail(ctx, "prof@test.br")
	require.NoError(t, err)
	assert.Equal(t, prof.ID, got.ID)
	assert.True(t, got.IsProfessor)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.NoError(t, got.CheckPassword("Xk9#mPq2!vL"))
	assert.True(t, got.LastLogin.IsZero())

	got.LastLogin = now.Add(time.Hour)
	_, err = repo.UpdateProfessor(ctx, got)
	require.NoError(t, err)
	got, err = repo.GetProfessorByID(ctx, prof.ID)
	require.NoError(t, err)
	assert.True(t, got.LastLogin.Equal(now.Add(time.Hour)))

	_, err = repo.GetProfessorByEmail(ctx, "nobody@test.br")
	assert.True(t, core.IsNotFound(err))
}
