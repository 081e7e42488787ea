// Package testutil holds fixtures shared by the repository and API tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/core/student"
)

// Password satisfies the professor password policy.
const Password = "Xk9#mPq2!vL"

func CreateProfessor(
	t *testing.T,
	repo professor.Repository,
	name, email, pwd string,
	isProfessor, isActive bool,
	createdAt ...time.Time,
) professor.Professor {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	prof := professor.Professor{
		Name:        name,
		Email:       email,
		IsProfessor: isProfessor,
		IsActive:    isActive,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	if pwd != "" {
		if err := prof.SetPassword(pwd); err != nil {
			t.Fatalf("CreateProfessor() failed: %v", err)
		}
	}
	prof, err := repo.CreateProfessor(context.Background(), prof)
	if err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	return prof
}

func CreateClass(t *testing.T, repo class.Repository, name string) class.Class {
	cls, err := repo.CreateClass(context.Background(), class.Class{Name: name})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateStudent(t *testing.T, repo student.Repository, name, classID string) student.Student {
	std, err := repo.CreateStudent(context.Background(), student.Student{Name: name, ClassID: classID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

// SaveGrade stores the record of std with the four scores given in order (work, project, exam1, exam2).
func SaveGrade(t *testing.T, repo grade.Repository, std student.Student, qualitative string, scores ...float64) grade.Grade {
	g := grade.NewPlaceholder(std.ID, std.ClassID)
	fields := []string{grade.FieldWork, grade.FieldProject, grade.FieldExam1, grade.FieldExam2}
	var err error
	for i, score := range scores {
		if i >= len(fields) {
			break
		}
		if g, err = g.Set(fields[i], score); err != nil {
			t.Fatalf("SaveGrade() failed: %v", err)
		}
	}
	g.Qualitative = qualitative

	saved, err := repo.UpsertGrades(context.Background(), []grade.Grade{g})
	if err != nil {
		t.Fatalf("SaveGrade() failed: %v", err)
	}
	return saved[0]
}
