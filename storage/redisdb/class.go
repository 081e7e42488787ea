package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/trezcool/notas/core/class"
)

type classRepository struct {
	client *redis.Client
}

func NewClassRepository(client *redis.Client) class.Repository {
	return &classRepository{client: client}
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.NewString()
	score, err := nextScore(ctx, repo.client)
	if err != nil {
		return class.Class{}, storeErr(err, "creating class")
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, classKey(cls.ID), "id", cls.ID, "name", cls.Name)
		pipe.ZAdd(ctx, classesKey, &redis.Z{Score: score, Member: cls.ID})
		return nil
	})
	if err != nil {
		return class.Class{}, storeErr(err, "creating class")
	}
	return cls, nil
}

func (repo *classRepository) QueryClasses(ctx context.Context) ([]class.Class, error) {
	ids, err := repo.client.ZRange(ctx, classesKey, 0, -1).Result()
	if err != nil {
		return nil, storeErr(err, "querying classes")
	}

	cmds := make([]*redis.StringStringMapCmd, 0, len(ids))
	if len(ids) > 0 {
		_, err = repo.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				cmds = append(cmds, pipe.HGetAll(ctx, classKey(id)))
			}
			return nil
		})
		if err != nil {
			return nil, storeErr(err, "querying classes")
		}
	}

	classes := make([]class.Class, 0, len(ids))
	for _, cmd := range cmds {
		if data := cmd.Val(); len(data) > 0 {
			classes = append(classes, class.Class{ID: data["id"], Name: data["name"]})
		}
	}
	return classes, nil
}

func (repo *classRepository) GetClass(ctx context.Context, id string) (class.Class, error) {
	data, err := repo.client.HGetAll(ctx, classKey(id)).Result()
	if err != nil {
		return class.Class{}, storeErr(err, "getting class")
	}
	if len(data) == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return class.Class{ID: data["id"], Name: data["name"]}, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	exists, err := repo.client.Exists(ctx, classKey(cls.ID)).Result()
	if err != nil {
		return class.Class{}, storeErr(err, "updating class")
	}
	if exists == 0 {
		return class.Class{}, class.ErrNotFound
	}
	if err = repo.client.HSet(ctx, classKey(cls.ID), "name", cls.Name).Err(); err != nil {
		return class.Class{}, storeErr(err, "updating class")
	}
	return cls, nil
}

// DeleteClass leaves the students of the class untouched.
func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.ZRem(ctx, classesKey, id)
		pipe.Del(ctx, classKey(id))
		return nil
	})
	if err != nil {
		return storeErr(err, "deleting class")
	}
	if removed.Val() == 0 {
		return class.ErrNotFound
	}
	return nil
}
