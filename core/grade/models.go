package grade

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/trezcool/notas/core"
)

// Editable fields
const (
	FieldWork        = "work"
	FieldProject     = "project"
	FieldExam1       = "exam1"
	FieldExam2       = "exam2"
	FieldQualitative = "qualitative"
)

const (
	MinScore = 0
	MaxScore = 10
)

var errUnknownField = errors.New("unknown grade field")

// Grade is a student's evaluation record ("nota"). ID always equals StudentID.
type Grade struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	ClassID     string    `json:"class_id"`
	Work        float64   `json:"work"`
	Project     float64   `json:"project"`
	Exam1       float64   `json:"exam1"`
	Exam2       float64   `json:"exam2"`
	Qualitative string    `json:"qualitative"`
	Mean        float64   `json:"mean"`
	Sum         float64   `json:"sum"`
	LastUpdated time.Time `json:"last_updated"` // UTC; zero until the store writes it
}

// NewPlaceholder returns the zero-valued record shown for a student without a saved grade.
func NewPlaceholder(studentID, classID string) Grade {
	return Grade{ID: studentID, StudentID: studentID, ClassID: classID}
}

// HasTimestamp reports whether the store ever wrote this record.
func (g Grade) HasTimestamp() bool {
	return !g.LastUpdated.IsZero()
}

// Set returns a copy of g with field set to value and derived fields recomputed.
// Numeric fields accept numbers or numeric strings; anything else counts as 0.
func (g Grade) Set(field string, value interface{}) (Grade, error) {
	switch field {
	case FieldWork:
		g.Work = Clamp(ParseScore(value))
	case FieldProject:
		g.Project = Clamp(ParseScore(value))
	case FieldExam1:
		g.Exam1 = Clamp(ParseScore(value))
	case FieldExam2:
		g.Exam2 = Clamp(ParseScore(value))
	case FieldQualitative:
		if value == nil {
			g.Qualitative = ""
		} else if s, ok := value.(string); ok {
			g.Qualitative = s
		} else {
			return g, core.NewValidationError(errors.New("qualitative must be text"), core.FieldError{Field: field, Error: "must be text"})
		}
	default:
		return g, core.NewValidationError(errUnknownField, core.FieldError{Field: field, Error: errUnknownField.Error()})
	}
	g.Recalculate()
	return g, nil
}

// Recalculate derives Sum and Mean from the four components.
func (g *Grade) Recalculate() {
	g.Sum = g.Work + g.Project + g.Exam1 + g.Exam2
	g.Mean = g.Sum / 4
}

// Normalize clamps every component and recomputes the derived fields.
func (g *Grade) Normalize() {
	g.Work = Clamp(g.Work)
	g.Project = Clamp(g.Project)
	g.Exam1 = Clamp(g.Exam1)
	g.Exam2 = Clamp(g.Exam2)
	g.Recalculate()
}

// Clamp bounds v to [MinScore, MaxScore]. NaN is 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MinScore
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	}
	return v
}

// ParseScore converts raw input into a number; non-numeric input is 0.
func ParseScore(value interface{}) float64 {
	var f float64
	switch v := value.(type) {
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = n
	case bool:
		return 0
	default:
		n, err := cast.ToFloat64E(value)
		if err != nil {
			return 0
		}
		f = n
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Edit is a single field change on one student's record.
type Edit struct {
	StudentID string      `json:"student_id" validate:"required"`
	Field     string      `json:"field" validate:"required,oneof=work project exam1 exam2 qualitative"`
	Value     interface{} `json:"value"`
}
