package inmemdb

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/student"
)

type (
	// DB keeps every collection in memory, in insertion order.
	DB struct {
		mu      sync.RWMutex
		failure error

		// NowFunc stamps saved grades. Mockable.
		NowFunc func() time.Time
		// NewID assigns identifiers on create. Mockable.
		NewID func() string

		class     *table[class.Class]
		student   *table[student.Student]
		grade     *table[grade.Grade]
		professor *table[professor.Professor]
	}

	table[T any] struct {
		order []string
		rows  map[string]T
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) all() []T {
	items := make([]T, 0, len(t.order))
	for _, id := range t.order {
		items = append(items, t.rows[id])
	}
	return items
}

func (t *table[T]) get(id string) (T, bool) {
	item, ok := t.rows[id]
	return item, ok
}

func (t *table[T]) put(id string, item T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = item
}

func (t *table[T]) delete(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func Open() *DB {
	return &DB{
		NowFunc:   time.Now,
		NewID:     func() string { return uuid.NewString() },
		class:     newTable[class.Class](),
		student:   newTable[student.Student](),
		grade:     newTable[grade.Grade](),
		professor: newTable[professor.Professor](),
	}
}

// SetFailure makes every following call fail with a StoreUnavailable wrapping err; nil heals the store.
func (db *DB) SetFailure(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failure = err
}

func (db *DB) check(op string) error {
	if db.failure != nil {
		return core.NewStoreUnavailableError(db.failure, op)
	}
	return nil
}

// Reset empties every collection.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failure = nil
	db.class = newTable[class.Class]()
	db.student = newTable[student.Student]()
	db.grade = newTable[grade.Grade]()
	db.professor = newTable[professor.Professor]()
}
