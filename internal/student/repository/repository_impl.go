package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/student/domain"
	"github.com/opencampus/beacon/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, student *domain.Student) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO students (id, name, major, cumulative_gpa, first_gen, age, gender, credits_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.ID,
		student.Name,
		student.Major,
		student.CumulativeGPA,
		student.FirstGen,
		student.Age,
		student.Gender,
		student.CreditsCompleted,
		student.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Student, error) {
	var student domain.Student
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListStudentFilter, page pagination.Pagination) ([]*domain.Student, error) {
	var students []*domain.Student
	stmt := db.WithContext(ctx).Model(&domain.Student{})
	if filter.Major != "" {
		stmt = stmt.Where("major = ?", filter.Major)
	}
	if filter.FirstGen != nil {
		stmt = stmt.Where("first_gen = ?", *filter.FirstGen)
	}
	if filter.RiskTier != "" {
		stmt = stmt.Where("id IN (SELECT student_id FROM risk_scores WHERE risk_tier = ?)", filter.RiskTier)
	}
	if page.PageToken != "" {
		// Cursors are client-supplied; anything undecodable is an input
		// error, not a server failure.
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursorAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursorID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", cursorAt, cursorAt, cursorID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *repo) LatestAttendance(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc, id desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) RecentLMSEvents(ctx context.Context, db *gorm.DB, studentID snowflake.ID, limit int) ([]domain.LMSEvent, error) {
	var events []domain.LMSEvent
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) FinancialAid(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*domain.FinancialAid, error) {
	var aid domain.FinancialAid
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&aid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &aid, nil
}

func (r *repo) CountEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *repo) ListTermGPAs(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]domain.TermGPA, error) {
	var gpas []domain.TermGPA
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&gpas).Error
	return gpas, err
}

func (r *repo) ListEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *repo) ListAttendance(ctx context.Context, db *gorm.DB, studentID snowflake.ID, limit int) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	stmt := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	err := stmt.Find(&records).Error
	return records, err
}
