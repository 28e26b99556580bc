// Package seed populates a fresh database with a small demo cohort so the
// API is explorable out of the box.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	pkgdb "github.com/opencampus/beacon/pkg/db"
	"gorm.io/gorm"
)

type demoStudent struct {
	Name             string
	Major            string
	GPA              float64
	FirstGen         bool
	Age              int
	Gender           string
	CreditsCompleted int
	AttendancePct    float64
	WeeklyLogins     int
	AidAmountUSD     float64
	Courses          []string
}

var demoCourses = []studentdomain.Course{
	{Dept: "CS", Level: 101, Title: "Introduction to Computer Science"},
	{Dept: "MATH", Level: 201, Title: "Calculus II"},
	{Dept: "ENG", Level: 101, Title: "College Composition"},
	{Dept: "BIO", Level: 150, Title: "Foundations of Biology"},
	{Dept: "HIST", Level: 101, Title: "World History"},
}

var demoStudents = []demoStudent{
	{
		Name: "Aarav Patel", Major: "Computer Science", GPA: 2.80, FirstGen: true,
		Age: 19, Gender: "male", CreditsCompleted: 30,
		AttendancePct: 84, WeeklyLogins: 4, AidAmountUSD: 6500,
		Courses: []string{"CS", "MATH", "ENG"},
	},
	{
		Name: "Emily Nguyen", Major: "Biology", GPA: 3.90, FirstGen: false,
		Age: 20, Gender: "female", CreditsCompleted: 58,
		AttendancePct: 97, WeeklyLogins: 9, AidAmountUSD: 0,
		Courses: []string{"BIO", "MATH", "ENG", "HIST"},
	},
	{
		Name: "Daniel Owusu", Major: "History", GPA: 3.10, FirstGen: false,
		Age: 21, Gender: "male", CreditsCompleted: 74,
		AttendancePct: 88, WeeklyLogins: 3, AidAmountUSD: 4200,
		Courses: []string{"HIST", "ENG"},
	},
	{
		Name: "Sofia Martinez", Major: "Mathematics", GPA: 3.70, FirstGen: true,
		Age: 19, Gender: "female", CreditsCompleted: 32,
		AttendancePct: 93, WeeklyLogins: 6, AidAmountUSD: 8800,
		Courses: []string{"MATH", "CS", "ENG"},
	},
	{
		Name: "Mei Chen", Major: "Engineering", GPA: 2.40, FirstGen: true,
		Age: 18, Gender: "female", CreditsCompleted: 14,
		AttendancePct: 72, WeeklyLogins: 3, AidAmountUSD: 0,
		Courses: []string{"MATH", "ENG"},
	},
}

// EnsureDemoData seeds the demo cohort once. A database that already has
// students is left untouched.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&studentdomain.Student{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		term, err := ensureTerm(tx, node)
		if err != nil {
			return err
		}
		courseByDept, err := ensureCourses(tx, node)
		if err != nil {
			return err
		}

		for _, ds := range demoStudents {
			if err := insertStudent(tx, node, term, courseByDept, ds); err != nil {
				return err
			}
		}
		return nil
	})
	// Two instances booting against the same fresh database race on the
	// count check; the loser's duplicate insert means the data is there.
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func ensureTerm(tx *gorm.DB, node *snowflake.Node) (studentdomain.Term, error) {
	term := studentdomain.Term{
		ID:        node.Generate(),
		Name:      "Fall 2025",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Weeks:     15,
		CreatedAt: time.Now().UTC(),
	}
	return term, tx.Create(&term).Error
}

func ensureCourses(tx *gorm.DB, node *snowflake.Node) (map[string]studentdomain.Course, error) {
	byDept := make(map[string]studentdomain.Course, len(demoCourses))
	for _, c := range demoCourses {
		course := c
		course.ID = node.Generate()
		if err := tx.Create(&course).Error; err != nil {
			return nil, err
		}
		byDept[course.Dept] = course
	}
	return byDept, nil
}

func insertStudent(tx *gorm.DB, node *snowflake.Node, term studentdomain.Term, courseByDept map[string]studentdomain.Course, ds demoStudent) error {
	now := time.Now().UTC()
	student := studentdomain.Student{
		ID:               node.Generate(),
		Name:             ds.Name,
		Major:            ds.Major,
		CumulativeGPA:    ds.GPA,
		FirstGen:         ds.FirstGen,
		Age:              ds.Age,
		Gender:           ds.Gender,
		CreditsCompleted: ds.CreditsCompleted,
		CreatedAt:        now,
	}
	if err := tx.Create(&student).Error; err != nil {
		return err
	}

	for _, dept := range ds.Courses {
		course, ok := courseByDept[dept]
		if !ok {
			return errors.New("seed references unknown course dept: " + dept)
		}

		enrollment := studentdomain.Enrollment{
			ID:        node.Generate(),
			StudentID: student.ID,
			CourseID:  course.ID,
			TermID:    term.ID,
			CreatedAt: now,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
	}

	// One attendance roll-up and four weekly activity roll-ups per student,
	// all against the first enrolled course.
	firstCourse := courseByDept[ds.Courses[0]]
	attendance := studentdomain.AttendanceRecord{
		StudentID:     student.ID,
		CourseID:      firstCourse.ID,
		TermID:        term.ID,
		Month:         "2025-11",
		AttendancePct: ds.AttendancePct,
		CreatedAt:     now,
	}
	if err := tx.Create(&attendance).Error; err != nil {
		return err
	}

	for week := 0; week < 4; week++ {
		event := studentdomain.LMSEvent{
			StudentID:            student.ID,
			CourseID:             firstCourse.ID,
			TermID:               term.ID,
			Date:                 time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7*week),
			Logins:               ds.WeeklyLogins,
			TimeOnPlatformMin:    ds.WeeklyLogins * 35,
			AssignmentsSubmitted: ds.WeeklyLogins / 2,
			CreatedAt:            now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
	}

	if ds.AidAmountUSD > 0 {
		aid := studentdomain.FinancialAid{
			StudentID:    student.ID,
			AidAmountUSD: ds.AidAmountUSD,
		}
		if err := tx.Create(&aid).Error; err != nil {
			return err
		}
	}

	gpa := studentdomain.TermGPA{
		StudentID: student.ID,
		TermID:    term.ID,
		TermGPA:   ds.GPA,
	}
	return tx.Create(&gpa).Error
}
