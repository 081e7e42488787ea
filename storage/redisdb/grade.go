package redisdb

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core/grade"
)

// upsertGradesScript replaces every nota hash of the batch in one atomic step and stamps
// them with the server clock, in microseconds.
// KEYS: notas, seq, nota:{id}...  ARGV: gradeArgs per record.
var upsertGradesScript = redis.NewScript(`
local t = redis.call('TIME')
local stamp = t[1] .. string.format('%06d', tonumber(t[2]))
for i = 3, #KEYS do
	local a = (i - 3) * 10
	local id = ARGV[a + 1]
	if not redis.call('ZSCORE', KEYS[1], id) then
		redis.call('ZADD', KEYS[1], redis.call('INCR', KEYS[2]), id)
	end
	redis.call('DEL', KEYS[i])
	redis.call('HSET', KEYS[i],
		'id', id, 'student_id', ARGV[a + 2], 'class_id', ARGV[a + 3],
		'work', ARGV[a + 4], 'project', ARGV[a + 5], 'exam1', ARGV[a + 6], 'exam2', ARGV[a + 7],
		'qualitative', ARGV[a + 8], 'mean', ARGV[a + 9], 'sum', ARGV[a + 10],
		'last_updated', stamp)
end
return stamp
`)

type gradeRepository struct {
	client *redis.Client
}

func NewGradeRepository(client *redis.Client) grade.Repository {
	return &gradeRepository{client: client}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func gradeArgs(g grade.Grade) []interface{} {
	return []interface{}{
		g.ID, g.StudentID, g.ClassID,
		formatScore(g.Work), formatScore(g.Project), formatScore(g.Exam1), formatScore(g.Exam2),
		g.Qualitative, formatScore(g.Mean), formatScore(g.Sum),
	}
}

func parseStamp(s string) (time.Time, error) {
	usec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(usec).UTC(), nil
}

func gradeFromHash(data map[string]string) (grade.Grade, error) {
	g := grade.Grade{
		ID:          data["id"],
		StudentID:   data["student_id"],
		ClassID:     data["class_id"],
		Qualitative: data["qualitative"],
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"work", &g.Work}, {"project", &g.Project}, {"exam1", &g.Exam1}, {"exam2", &g.Exam2},
		{"mean", &g.Mean}, {"sum", &g.Sum},
	} {
		v, err := strconv.ParseFloat(data[f.name], 64)
		if err != nil {
			return grade.Grade{}, errors.Wrapf(err, "parsing nota:%s %s", g.ID, f.name)
		}
		*f.dst = v
	}
	if stamp := data["last_updated"]; stamp != "" {
		t, err := parseStamp(stamp)
		if err != nil {
			return grade.Grade{}, errors.Wrapf(err, "parsing nota:%s last_updated", g.ID)
		}
		g.LastUpdated = t
	}
	return g, nil
}

func (repo *gradeRepository) getAll(ctx context.Context, ids []string) ([]grade.Grade, error) {
	cmds := make([]*redis.StringStringMapCmd, 0, len(ids))
	_, err := repo.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, pipe.HGetAll(ctx, gradeKey(id)))
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "querying grades")
	}

	grades := make([]grade.Grade, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		g, err := gradeFromHash(data)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func (repo *gradeRepository) QueryGradesByIDs(ctx context.Context, ids []string) ([]grade.Grade, error) {
	if len(ids) == 0 {
		return []grade.Grade{}, nil
	}
	return repo.getAll(ctx, ids)
}

func (repo *gradeRepository) QueryGrades(ctx context.Context) ([]grade.Grade, error) {
	ids, err := repo.client.ZRange(ctx, gradesKey, 0, -1).Result()
	if err != nil {
		return nil, storeErr(err, "querying grades")
	}
	if len(ids) == 0 {
		return []grade.Grade{}, nil
	}
	return repo.getAll(ctx, ids)
}

func (repo *gradeRepository) UpsertGrades(ctx context.Context, grades []grade.Grade) ([]grade.Grade, error) {
	if len(grades) == 0 {
		return []grade.Grade{}, nil
	}

	keys := make([]string, 0, len(grades)+2)
	keys = append(keys, gradesKey, seqKey)
	args := make([]interface{}, 0, len(grades)*10)
	for _, g := range grades {
		keys = append(keys, gradeKey(g.ID))
		args = append(args, gradeArgs(g)...)
	}

	stamp, err := upsertGradesScript.Run(ctx, repo.client, keys, args...).Text()
	if err != nil {
		return nil, storeErr(err, "upserting grades")
	}
	now, err := parseStamp(stamp)
	if err != nil {
		return nil, errors.Wrap(err, "parsing commit time")
	}

	saved := make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		g.LastUpdated = now
		saved = append(saved, g)
	}
	return saved, nil
}
