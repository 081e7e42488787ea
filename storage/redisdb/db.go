package redisdb

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
)

// Keys
const (
	seqKey = "seq" // INCR counter; insertion order of every collection

	classesKey         = "turmas"  // ZSet: class IDs by insertion order
	classPrefix        = "turma:"  // Hash: turma:{id} -> id, name
	studentsKey        = "alunos"  // ZSet: student IDs by insertion order
	studentPrefix      = "aluno:"  // Hash: aluno:{id} -> id, name, class_id
	gradesKey          = "notas"   // ZSet: grade IDs by first save
	gradePrefix        = "nota:"   // Hash: nota:{id} -> every grade field
	professorPrefix    = "professor:"
	professorsEmailKey = "professores:email" // Hash: email -> professor id
)

func classKey(id string) string         { return classPrefix + id }
func classStudentsKey(id string) string { return classPrefix + id + ":alunos" } // ZSet
func studentKey(id string) string       { return studentPrefix + id }
func gradeKey(id string) string         { return gradePrefix + id }
func professorKey(id string) string     { return professorPrefix + id }

// Open returns a client for conf and waits for the server to answer.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ping waits for redis to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *redis.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx).Err(); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "redis ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "redis ping timeout")
	}
	return nil
}

// storeErr maps client failures to StoreUnavailable; redis.Nil is not a failure.
func storeErr(err error, op string) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	return core.NewStoreUnavailableError(err, op)
}

// nextScore reserves the insertion rank of a new member.
func nextScore(ctx context.Context, client redis.Cmdable) (float64, error) {
	seq, err := client.Incr(ctx, seqKey).Result()
	if err != nil {
		return 0, err
	}
	return float64(seq), nil
}
