package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/advisingnote/domain"
	"github.com/opencampus/beacon/internal/clock"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Students studentdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	students studentdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("advisingnote.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		students: p.Students,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateNoteRequest) (domain.Note, error) {
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return domain.Note{}, err
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		return domain.Note{}, domain.ErrInvalidAuthor
	}
	text := strings.TrimSpace(req.NoteText)
	if text == "" {
		return domain.Note{}, domain.ErrInvalidNoteText
	}

	now := s.clock.Now()
	note := domain.Note{
		ID:        s.genID.Generate(),
		StudentID: student.ID,
		Author:    author,
		NoteText:  text,
		NoteDate:  now.Truncate(24 * time.Hour),
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]domain.Note, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, s.db, student.ID)
}
