package seed

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&studentdomain.Student{},
		&studentdomain.Term{},
		&studentdomain.Course{},
		&studentdomain.TermGPA{},
		&studentdomain.AttendanceRecord{},
		&studentdomain.LMSEvent{},
		&studentdomain.FinancialAid{},
		&studentdomain.Enrollment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnsureDemoDataIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := EnsureDemoData(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := EnsureDemoData(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	counts := map[string]int64{}
	for table, model := range map[string]any{
		"students":    &studentdomain.Student{},
		"courses":     &studentdomain.Course{},
		"terms":       &studentdomain.Term{},
		"enrollments": &studentdomain.Enrollment{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		counts[table] = n
	}

	if counts["students"] != int64(len(demoStudents)) {
		t.Fatalf("expected %d students, got %d", len(demoStudents), counts["students"])
	}
	if counts["courses"] != int64(len(demoCourses)) {
		t.Fatalf("expected %d courses, got %d", len(demoCourses), counts["courses"])
	}
	if counts["terms"] != 1 {
		t.Fatalf("expected 1 term, got %d", counts["terms"])
	}

	var wantEnrollments int64
	for _, ds := range demoStudents {
		wantEnrollments += int64(len(ds.Courses))
	}
	if counts["enrollments"] != wantEnrollments {
		t.Fatalf("expected %d enrollments, got %d", wantEnrollments, counts["enrollments"])
	}
}

func TestEnsureDemoDataAidOnlyForAwardedStudents(t *testing.T) {
	db := openTestDB(t)
	if err := EnsureDemoData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var aidRows int64
	if err := db.Model(&studentdomain.FinancialAid{}).Count(&aidRows).Error; err != nil {
		t.Fatalf("count aid: %v", err)
	}

	var want int64
	for _, ds := range demoStudents {
		if ds.AidAmountUSD > 0 {
			want++
		}
	}
	if aidRows != want {
		t.Fatalf("expected %d aid rows, got %d", want, aidRows)
	}
}
