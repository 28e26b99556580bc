package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	advisingnotedomain "github.com/opencampus/beacon/internal/advisingnote/domain"
)

type createNoteRequest struct {
	Author   string `json:"author"`
	NoteText string `json:"note_text"`
}

func (s *Server) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	note, err := s.noteSvc.Create(c.Request.Context(), advisingnotedomain.CreateNoteRequest{
		StudentID: c.Param("id"),
		Author:    req.Author,
		NoteText:  req.NoteText,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": note})
}

func (s *Server) ListNotes(c *gin.Context) {
	notes, err := s.noteSvc.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notes})
}
