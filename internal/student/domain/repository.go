package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListStudentFilter struct {
	Major    string
	FirstGen *bool

	// RiskTier narrows to students whose stored assessment has this tier.
	RiskTier string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, student *Student) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Student, error)
	List(ctx context.Context, db *gorm.DB, filter ListStudentFilter, page pagination.Pagination) ([]*Student, error)

	// Feature-snapshot reads. Each returns its zero value when the student
	// has no related rows; only FindByID distinguishes a missing student.
	LatestAttendance(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*AttendanceRecord, error)
	RecentLMSEvents(ctx context.Context, db *gorm.DB, studentID snowflake.ID, limit int) ([]LMSEvent, error)
	FinancialAid(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*FinancialAid, error)
	CountEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int64, error)

	ListTermGPAs(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]TermGPA, error)
	ListEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]Enrollment, error)
	ListAttendance(ctx context.Context, db *gorm.DB, studentID snowflake.ID, limit int) ([]AttendanceRecord, error)
}
