package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/advisingnote/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, note *domain.Note) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO advising_notes (id, student_id, author, note_text, note_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.StudentID,
		note.Author,
		note.NoteText,
		note.NoteDate,
		note.CreatedAt,
	).Error
}

func (r *repo) ListByStudent(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]domain.Note, error) {
	var notes []domain.Note
	err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc, id desc").
		Find(&notes).Error
	return notes, err
}
