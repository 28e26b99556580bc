package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidNoteText = errors.New("invalid_note_text")
	ErrInvalidAuthor   = errors.New("invalid_author")
)

// Note is one advisor-authored entry in a student's append-only advising log.
// Notes are never updated or deleted.
type Note struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID `gorm:"not null;index" json:"student_id"`
	Author    string       `gorm:"not null" json:"author"`
	NoteText  string       `gorm:"column:note_text;not null" json:"note_text"`
	NoteDate  time.Time    `gorm:"column:note_date" json:"note_date"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Note) TableName() string { return "advising_notes" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, note *Note) error
	ListByStudent(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]Note, error)
}

type CreateNoteRequest struct {
	StudentID string
	Author    string
	NoteText  string
}

type Service interface {
	Create(ctx context.Context, req CreateNoteRequest) (Note, error)
	ListByStudent(ctx context.Context, studentID string) ([]Note, error)
}
