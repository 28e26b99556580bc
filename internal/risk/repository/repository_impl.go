package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/risk/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, assessment *domain.Assessment) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"risk_score",
				"risk_tier",
				"intervention_type",
				"note_date",
				"updated_at",
			}),
		}).
		Create(assessment).Error
}

func (r *repo) FindByStudentID(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (*domain.Assessment, error) {
	var assessment domain.Assessment
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assessment, nil
}
