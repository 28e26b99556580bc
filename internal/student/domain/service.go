package domain

import (
	"context"
	"errors"

	"github.com/opencampus/beacon/pkg/db/pagination"
)

var (
	ErrNotFound         = errors.New("student_not_found")
	ErrInvalidID        = errors.New("invalid_student_id")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)

type ListStudentRequest struct {
	PageToken string
	PageSize  int
	Major     string
	FirstGen  *bool
	RiskTier  string
}

type ListStudentResponse struct {
	Students []Student           `json:"students"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	List(ctx context.Context, req ListStudentRequest) (ListStudentResponse, error)
	GetByID(ctx context.Context, id string) (Student, error)
	GetDetail(ctx context.Context, id string) (Detail, error)

	// FeatureSnapshot assembles the risk feature vector for a student.
	// Missing related records contribute zero/false defaults; only an
	// unknown student fails.
	FeatureSnapshot(ctx context.Context, id string) (FeatureSnapshot, error)
}
