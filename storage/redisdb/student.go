package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/trezcool/notas/core/student"
)

type studentRepository struct {
	client *redis.Client
}

func NewStudentRepository(client *redis.Client) student.Repository {
	return &studentRepository{client: client}
}

func studentFromHash(data map[string]string) student.Student {
	return student.Student{ID: data["id"], Name: data["name"], ClassID: data["class_id"]}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.NewString()
	score, err := nextScore(ctx, repo.client)
	if err != nil {
		return student.Student{}, storeErr(err, "creating student")
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, studentKey(std.ID), "id", std.ID, "name", std.Name, "class_id", std.ClassID)
		pipe.ZAdd(ctx, studentsKey, &redis.Z{Score: score, Member: std.ID})
		pipe.ZAdd(ctx, classStudentsKey(std.ClassID), &redis.Z{Score: score, Member: std.ID})
		return nil
	})
	if err != nil {
		return student.Student{}, storeErr(err, "creating student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	key := studentsKey
	if filter.ClassID != "" {
		key = classStudentsKey(filter.ClassID)
	}
	ids, err := repo.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, storeErr(err, "querying students")
	}

	cmds := make([]*redis.StringStringMapCmd, 0, len(ids))
	if len(ids) > 0 {
		_, err = repo.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				cmds = append(cmds, pipe.HGetAll(ctx, studentKey(id)))
			}
			return nil
		})
		if err != nil {
			return nil, storeErr(err, "querying students")
		}
	}

	students := make([]student.Student, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		std := studentFromHash(data)
		if filter.ClassID != "" && std.ClassID != filter.ClassID {
			continue // stale index entry
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	data, err := repo.client.HGetAll(ctx, studentKey(id)).Result()
	if err != nil {
		return student.Student{}, storeErr(err, "getting student")
	}
	if len(data) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return studentFromHash(data), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	orig, err := repo.GetStudent(ctx, std.ID)
	if err != nil {
		return student.Student{}, err
	}
	score, err := repo.client.ZScore(ctx, studentsKey, std.ID).Result()
	if err != nil {
		return student.Student{}, storeErr(err, "updating student")
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, studentKey(std.ID), "name", std.Name, "class_id", std.ClassID)
		if orig.ClassID != std.ClassID {
			pipe.ZRem(ctx, classStudentsKey(orig.ClassID), std.ID)
			pipe.ZAdd(ctx, classStudentsKey(std.ClassID), &redis.Z{Score: score, Member: std.ID})
		}
		return nil
	})
	if err != nil {
		return student.Student{}, storeErr(err, "updating student")
	}
	return std, nil
}

// DeleteStudent keeps the student's grade record.
func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	std, err := repo.GetStudent(ctx, id)
	if err != nil {
		return err
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, studentsKey, id)
		pipe.ZRem(ctx, classStudentsKey(std.ClassID), id)
		pipe.Del(ctx, studentKey(id))
		return nil
	})
	return storeErr(err, "deleting student")
}
