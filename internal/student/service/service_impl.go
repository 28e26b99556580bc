package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/student/domain"
	"github.com/opencampus/beacon/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recentLMSEventLimit bounds how many activity records feed the login average.
const recentLMSEventLimit = 5

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("student.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListStudentRequest) (domain.ListStudentResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}

	items, err := s.repo.List(ctx, s.db, domain.ListStudentFilter{
		Major:    strings.TrimSpace(req.Major),
		FirstGen: req.FirstGen,
		RiskTier: strings.TrimSpace(req.RiskTier),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListStudentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(student *domain.Student) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        student.ID.String(),
			CreatedAt: student.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	students := make([]domain.Student, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		students = append(students, *item)
	}

	return domain.ListStudentResponse{
		Students: students,
		PageInfo: *pageInfo,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Student, error) {
	studentID, err := parseID(id)
	if err != nil {
		return domain.Student{}, err
	}

	student, err := s.repo.FindByID(ctx, s.db, studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if student == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	return *student, nil
}

func (s *Service) GetDetail(ctx context.Context, id string) (domain.Detail, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Detail{}, err
	}

	detail := domain.Detail{Student: student}

	if detail.TermGPAs, err = s.repo.ListTermGPAs(ctx, s.db, student.ID); err != nil {
		return domain.Detail{}, err
	}
	if detail.Attendance, err = s.repo.ListAttendance(ctx, s.db, student.ID, 12); err != nil {
		return domain.Detail{}, err
	}
	if detail.LMSEvents, err = s.repo.RecentLMSEvents(ctx, s.db, student.ID, recentLMSEventLimit); err != nil {
		return domain.Detail{}, err
	}
	if detail.FinancialAid, err = s.repo.FinancialAid(ctx, s.db, student.ID); err != nil {
		return domain.Detail{}, err
	}
	if detail.Enrollments, err = s.repo.ListEnrollments(ctx, s.db, student.ID); err != nil {
		return domain.Detail{}, err
	}

	return detail, nil
}

func (s *Service) FeatureSnapshot(ctx context.Context, id string) (domain.FeatureSnapshot, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.FeatureSnapshot{}, err
	}

	snapshot := domain.FeatureSnapshot{
		CumulativeGPA:   student.CumulativeGPA,
		FirstGeneration: student.FirstGen,
	}

	attendance, err := s.repo.LatestAttendance(ctx, s.db, student.ID)
	if err != nil {
		return domain.FeatureSnapshot{}, err
	}
	if attendance != nil {
		snapshot.RecentAttendancePct = attendance.AttendancePct
	}

	events, err := s.repo.RecentLMSEvents(ctx, s.db, student.ID, recentLMSEventLimit)
	if err != nil {
		return domain.FeatureSnapshot{}, err
	}
	if len(events) > 0 {
		total := 0
		for _, event := range events {
			total += event.Logins
		}
		snapshot.AvgWeeklyLogins = float64(total) / float64(len(events))
	}

	aid, err := s.repo.FinancialAid(ctx, s.db, student.ID)
	if err != nil {
		return domain.FeatureSnapshot{}, err
	}
	snapshot.HasFinancialAid = aid != nil && aid.AidAmountUSD > 0

	courseLoad, err := s.repo.CountEnrollments(ctx, s.db, student.ID)
	if err != nil {
		return domain.FeatureSnapshot{}, err
	}
	snapshot.CourseLoad = int(courseLoad)

	return snapshot, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
