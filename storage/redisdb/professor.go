package redisdb

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core/professor"
)

type professorRepository struct {
	client *redis.Client
}

func NewProfessorRepository(client *redis.Client) professor.Repository {
	return &professorRepository{client: client}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func professorFields(prof professor.Professor) []interface{} {
	return []interface{}{
		"id", prof.ID,
		"name", prof.Name,
		"email", prof.Email,
		"is_professor", strconv.FormatBool(prof.IsProfessor),
		"is_active", strconv.FormatBool(prof.IsActive),
		"password_hash", string(prof.PasswordHash),
		"created_at", formatTime(prof.CreatedAt),
		"updated_at", formatTime(prof.UpdatedAt),
		"last_login", formatTime(prof.LastLogin),
	}
}

func professorFromHash(data map[string]string) (professor.Professor, error) {
	prof := professor.Professor{
		ID:           data["id"],
		Name:         data["name"],
		Email:        data["email"],
		IsProfessor:  data["is_professor"] == "true",
		IsActive:     data["is_active"] == "true",
		PasswordHash: []byte(data["password_hash"]),
	}
	var err error
	if prof.CreatedAt, err = parseTime(data["created_at"]); err != nil {
		return professor.Professor{}, errors.Wrap(err, "parsing created_at")
	}
	if prof.UpdatedAt, err = parseTime(data["updated_at"]); err != nil {
		return professor.Professor{}, errors.Wrap(err, "parsing updated_at")
	}
	if prof.LastLogin, err = parseTime(data["last_login"]); err != nil {
		return professor.Professor{}, errors.Wrap(err, "parsing last_login")
	}
	return prof, nil
}

func (repo *professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	prof.ID = uuid.NewString()

	// the email index doubles as the uniqueness lock
	ok, err := repo.client.HSetNX(ctx, professorsEmailKey, prof.Email, prof.ID).Result()
	if err != nil {
		return professor.Professor{}, storeErr(err, "creating professor")
	}
	if !ok {
		return professor.Professor{}, professor.ErrEmailExists
	}
	if err = repo.client.HSet(ctx, professorKey(prof.ID), professorFields(prof)...).Err(); err != nil {
		_ = repo.client.HDel(ctx, professorsEmailKey, prof.Email)
		return professor.Professor{}, storeErr(err, "creating professor")
	}
	return prof, nil
}

func (repo *professorRepository) GetProfessorByID(ctx context.Context, id string) (professor.Professor, error) {
	data, err := repo.client.HGetAll(ctx, professorKey(id)).Result()
	if err != nil {
		return professor.Professor{}, storeErr(err, "getting professor")
	}
	if len(data) == 0 {
		return professor.Professor{}, professor.ErrNotFound
	}
	return professorFromHash(data)
}

func (repo *professorRepository) GetProfessorByEmail(ctx context.Context, email string) (professor.Professor, error) {
	id, err := repo.client.HGet(ctx, professorsEmailKey, email).Result()
	if errors.Is(err, redis.Nil) {
		return professor.Professor{}, professor.ErrNotFound
	}
	if err != nil {
		return professor.Professor{}, storeErr(err, "getting professor")
	}
	return repo.GetProfessorByID(ctx, id)
}

func (repo *professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	orig, err := repo.GetProfessorByID(ctx, prof.ID)
	if err != nil {
		return professor.Professor{}, err
	}
	prof.Email = orig.Email // not editable
	if err = repo.client.HSet(ctx, professorKey(prof.ID), professorFields(prof)...).Err(); err != nil {
		return professor.Professor{}, storeErr(err, "updating professor")
	}
	return prof, nil
}
