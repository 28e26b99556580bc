package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
)

type predictRequest struct {
	StudentID string `json:"student_id"`
}

// PredictRisk computes a fresh risk prediction for one student and returns
// it. The stored assessment is refreshed as a side effect.
func (s *Server) PredictRisk(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(req.StudentID) == "" {
		AbortWithError(c, ValidationErrors{{Field: "student_id", Message: "is required"}})
		return
	}

	prediction, err := s.riskSvc.Predict(c.Request.Context(), riskdomain.PredictRequest{
		StudentID: strings.TrimSpace(req.StudentID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

func (s *Server) GetStudentRisk(c *gin.Context) {
	assessment, err := s.riskSvc.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assessment})
}
