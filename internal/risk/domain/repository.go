package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert overwrites the student's current assessment, keyed by
	// student_id. Last write wins on concurrent predictions.
	Upsert(ctx context.Context, db *gorm.DB, assessment *Assessment) error
	FindByStudentID(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*Assessment, error)
}
