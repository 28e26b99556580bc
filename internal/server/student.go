package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"github.com/opencampus/beacon/pkg/db/pagination"
)

type listStudentsQuery struct {
	pagination.Pagination
	Major    string `form:"major"`
	FirstGen string `form:"first_gen"`
	RiskTier string `form:"risk_tier"`
}

func (s *Server) ListStudents(c *gin.Context) {
	var query listStudentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := studentdomain.ListStudentRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Major:     strings.TrimSpace(query.Major),
	}
	if raw := strings.TrimSpace(query.FirstGen); raw != "" {
		firstGen, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.FirstGen = &firstGen
	}
	if raw := strings.TrimSpace(query.RiskTier); raw != "" {
		tier, err := riskdomain.ParseTier(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		req.RiskTier = string(tier)
	}

	resp, err := s.studentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type studentDetailResponse struct {
	studentdomain.Detail
	RiskAssessment *riskdomain.Assessment `json:"risk_assessment,omitempty"`
}

func (s *Server) GetStudent(c *gin.Context) {
	detail, err := s.studentSvc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := studentDetailResponse{Detail: detail}
	if assessment, err := s.riskSvc.GetAssessment(c.Request.Context(), c.Param("id")); err == nil {
		resp.RiskAssessment = &assessment
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
