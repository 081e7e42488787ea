package grade

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/notas/core"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{name: "negative", v: -3, want: 0},
		{name: "tiny negative", v: -0.0001, want: 0},
		{name: "zero", v: 0, want: 0},
		{name: "in range", v: 7.25, want: 7.25},
		{name: "upper bound", v: 10, want: 10},
		{name: "above", v: 12, want: 10},
		{name: "NaN", v: math.NaN(), want: 0},
		{name: "+Inf", v: math.Inf(1), want: 10},
		{name: "-Inf", v: math.Inf(-1), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v)
			assert.Equal(t, tt.want, got)
			assert.True(t, got >= MinScore && got <= MaxScore)
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
	}{
		{name: "nil", value: nil, want: 0},
		{name: "float", value: 8.5, want: 8.5},
		{name: "int", value: 7, want: 7},
		{name: "int8", value: int8(3), want: 3},
		{name: "int32", value: int32(8), want: 8},
		{name: "int64", value: int64(9), want: 9},
		{name: "uint", value: uint(8), want: 8},
		{name: "uint16", value: uint16(4), want: 4},
		{name: "uint64", value: uint64(10), want: 10},
		{name: "float32", value: float32(2.5), want: 2.5},
		{name: "numeric string", value: " 6.5 ", want: 6.5},
		{name: "empty string", value: "", want: 0},
		{name: "text", value: "dez", want: 0},
		{name: "json number", value: json.Number("9"), want: 9},
		{name: "bad json number", value: json.Number("x"), want: 0},
		{name: "NaN", value: math.NaN(), want: 0},
		{name: "NaN string", value: "NaN", want: 0},
		{name: "bool", value: true, want: 0},
		{name: "out of range is kept", value: 15.0, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.value))
		})
	}
}

func TestNewPlaceholder(t *testing.T) {
	g := NewPlaceholder("s1", "c1")

	assert.Equal(t, Grade{ID: "s1", StudentID: "s1", ClassID: "c1"}, g)
	assert.False(t, g.HasTimestamp())
}

func TestGrade_Set(t *testing.T) {
	base := NewPlaceholder("s1", "c1")

	tests := []struct {
		name    string
		field   string
		value   interface{}
		check   func(t *testing.T, g Grade)
		wantErr bool
	}{
		{name: "work", field: FieldWork, value: 8.0, check: func(t *testing.T, g Grade) { assert.Equal(t, 8.0, g.Work) }},
		{name: "project clamps high", field: FieldProject, value: 11.0, check: func(t *testing.T, g Grade) { assert.Equal(t, 10.0, g.Project) }},
		{name: "exam1 clamps low", field: FieldExam1, value: -2.0, check: func(t *testing.T, g Grade) { assert.Equal(t, 0.0, g.Exam1) }},
		{name: "exam2 from string", field: FieldExam2, value: "4", check: func(t *testing.T, g Grade) { assert.Equal(t, 4.0, g.Exam2) }},
		{name: "work from int32", field: FieldWork, value: int32(8), check: func(t *testing.T, g Grade) { assert.Equal(t, 8.0, g.Work) }},
		{name: "exam1 from uint", field: FieldExam1, value: uint(8), check: func(t *testing.T, g Grade) { assert.Equal(t, 8.0, g.Exam1) }},
		{name: "non-numeric is zero", field: FieldWork, value: "abc", check: func(t *testing.T, g Grade) { assert.Equal(t, 0.0, g.Work) }},
		{name: "qualitative", field: FieldQualitative, value: "Ótimo", check: func(t *testing.T, g Grade) { assert.Equal(t, "Ótimo", g.Qualitative) }},
		{name: "qualitative nil", field: FieldQualitative, value: nil, check: func(t *testing.T, g Grade) { assert.Equal(t, "", g.Qualitative) }},
		{name: "qualitative not text", field: FieldQualitative, value: 3.0, wantErr: true},
		{name: "unknown field", field: "mean", value: 9.0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Set(tt.field, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			assert.Equal(t, got.Work+got.Project+got.Exam1+got.Exam2, got.Sum)
			assert.Equal(t, got.Sum/4, got.Mean)
		})
	}

	t.Run("does not mutate receiver", func(t *testing.T) {
		_, err := base.Set(FieldWork, 5.0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, base.Work)
	})
}

func TestGrade_Set_derivedFields(t *testing.T) {
	g := NewPlaceholder("ana", "c1")
	edits := []struct {
		field string
		value interface{}
	}{
		{FieldWork, 8.0},
		{FieldExam1, 12.0},
		{FieldProject, 3.5},
		{FieldQualitative, "Bom"},
		{FieldExam2, 6.0},
		{FieldProject, 0.5},
	}

	var err error
	for _, e := range edits {
		g, err = g.Set(e.field, e.value)
		require.NoError(t, err)
		sum := g.Work + g.Project + g.Exam1 + g.Exam2
		assert.Equal(t, sum, g.Sum, "after %s", e.field)
		assert.Equal(t, sum/4, g.Mean, "after %s", e.field)
	}
	assert.Equal(t, 24.5, g.Sum)
	assert.Equal(t, 6.125, g.Mean)
}

func TestGrade_Set_idempotent(t *testing.T) {
	fields := []string{FieldWork, FieldProject, FieldExam1, FieldExam2}
	values := []interface{}{-1.0, 0.0, 3.3, 10.0, 42.0, "7", "x", nil}

	for _, field := range fields {
		for _, value := range values {
			once, err := NewPlaceholder("s", "c").Set(field, value)
			require.NoError(t, err)
			twice, err := once.Set(field, value)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "%s=%v", field, value)
		}
	}
}

func TestGrade_Normalize(t *testing.T) {
	g := Grade{Work: 15, Project: -1, Exam1: math.NaN(), Exam2: 5, Sum: 99, Mean: 99}
	g.Normalize()

	assert.Equal(t, 10.0, g.Work)
	assert.Equal(t, 0.0, g.Project)
	assert.Equal(t, 0.0, g.Exam1)
	assert.Equal(t, 15.0, g.Sum)
	assert.Equal(t, 3.75, g.Mean)
}
