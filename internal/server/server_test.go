package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	advisingnotedomain "github.com/opencampus/beacon/internal/advisingnote/domain"
	advisingnoterepo "github.com/opencampus/beacon/internal/advisingnote/repository"
	advisingnoteservice "github.com/opencampus/beacon/internal/advisingnote/service"
	"github.com/opencampus/beacon/internal/clock"
	"github.com/opencampus/beacon/internal/config"
	obsmetrics "github.com/opencampus/beacon/internal/observability/metrics"
	"github.com/opencampus/beacon/internal/providers/ai"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	riskrepo "github.com/opencampus/beacon/internal/risk/repository"
	riskservice "github.com/opencampus/beacon/internal/risk/service"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	studentrepo "github.com/opencampus/beacon/internal/student/repository"
	studentservice "github.com/opencampus/beacon/internal/student/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	engine    *gin.Engine
	db        *gorm.DB
	node      *snowflake.Node
	studentID snowflake.ID
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&studentdomain.Student{},
		&studentdomain.Term{},
		&studentdomain.Course{},
		&studentdomain.TermGPA{},
		&studentdomain.AttendanceRecord{},
		&studentdomain.LMSEvent{},
		&studentdomain.FinancialAid{},
		&studentdomain.Enrollment{},
		&riskdomain.Assessment{},
		&advisingnotedomain.Note{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))

	students := studentservice.New(studentservice.Params{
		DB:   db,
		Log:  log,
		Repo: studentrepo.Provide(),
	})
	riskSvc := riskservice.New(riskservice.Params{
		DB:       db,
		Log:      log,
		Clock:    fake,
		Repo:     riskrepo.Provide(),
		Students: students,
		Provider: ai.Disabled{},
		Scoring:  config.NewStaticScoringConfigHolder(config.DefaultScoringConfig()),
	})
	noteSvc := advisingnoteservice.New(advisingnoteservice.Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Repo:     advisingnoterepo.Provide(),
		Students: students,
	})

	reg := prometheus.NewRegistry()
	m, err := obsmetrics.New(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	engine := NewEngine(log, m, reg)

	srv := NewServer(ServerParams{
		Engine:     engine,
		Cfg:        config.Config{},
		DB:         db,
		Log:        log,
		StudentSvc: students,
		RiskSvc:    riskSvc,
		NoteSvc:    noteSvc,
	})
	srv.RegisterAPIRoutes()

	studentID := seedStudentRows(t, db, node)
	return &testServer{engine: engine, db: db, node: node, studentID: studentID}
}

// seedStudentRows inserts one student whose rule-based prediction is 70/High:
// gpa 2.40 (+30), attendance 72 (+20), avg logins 3 (+10), no aid (+10).
func seedStudentRows(t *testing.T, db *gorm.DB, node *snowflake.Node) snowflake.ID {
	t.Helper()
	studentID := node.Generate()
	termID := node.Generate()
	courseID := node.Generate()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := []any{
		&studentdomain.Student{
			ID:            studentID,
			Name:          "Mei Chen",
			Major:         "Engineering",
			CumulativeGPA: 2.40,
			FirstGen:      true,
			CreatedAt:     now,
		},
		&studentdomain.AttendanceRecord{
			StudentID:     studentID,
			CourseID:      courseID,
			TermID:        termID,
			Month:         "2026-02",
			AttendancePct: 72,
			CreatedAt:     now,
		},
		&studentdomain.LMSEvent{
			StudentID: studentID,
			CourseID:  courseID,
			TermID:    termID,
			Date:      now,
			Logins:    3,
			CreatedAt: now,
		},
		&studentdomain.Enrollment{
			ID:        node.Generate(),
			StudentID: studentID,
			CourseID:  courseID,
			TermID:    termID,
			CreatedAt: now,
		},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return studentID
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func TestPredictEndpointReturnsPrediction(t *testing.T) {
	ts := setupTestServer(t)

	body := fmt.Sprintf(`{"student_id": %q}`, ts.studentID.String())
	w := ts.do(t, http.MethodPost, "/api/predictions", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var prediction riskdomain.Prediction
	if err := json.Unmarshal(w.Body.Bytes(), &prediction); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prediction.RiskScore != 70 || prediction.RiskTier != riskdomain.TierHigh {
		t.Fatalf("expected 70/High, got %d/%s", prediction.RiskScore, prediction.RiskTier)
	}
	if len(prediction.Interventions) == 0 {
		t.Fatalf("expected interventions in response")
	}
}

func TestPredictEndpointUnknownStudent(t *testing.T) {
	ts := setupTestServer(t)

	body := fmt.Sprintf(`{"student_id": %q}`, ts.node.Generate().String())
	w := ts.do(t, http.MethodPost, "/api/predictions", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Type != "not_found" {
		t.Fatalf("expected not_found error type, got %q", resp.Error.Type)
	}
}

func TestPredictEndpointRejectsBadBody(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []string{``, `{}`, `{"student_id": ""}`, `not json`} {
		w := ts.do(t, http.MethodPost, "/api/predictions", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestGetStudentRisk(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/students/" + ts.studentID.String() + "/risk"

	// No assessment stored yet.
	if w := ts.do(t, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before prediction, got %d", w.Code)
	}

	body := fmt.Sprintf(`{"student_id": %q}`, ts.studentID.String())
	if w := ts.do(t, http.MethodPost, "/api/predictions", body); w.Code != http.StatusOK {
		t.Fatalf("predict: %d", w.Code)
	}

	w := ts.do(t, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after prediction, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data riskdomain.Assessment `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.RiskScore != 70 || resp.Data.RiskTier != riskdomain.TierHigh {
		t.Fatalf("stored assessment mismatch: %d/%s", resp.Data.RiskScore, resp.Data.RiskTier)
	}
}

func TestListStudents(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/students?page_size=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data studentdomain.ListStudentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(resp.Data.Students))
	}
	if resp.Data.Students[0].Name != "Mei Chen" {
		t.Fatalf("unexpected student: %+v", resp.Data.Students[0])
	}
}

func TestListStudentsRejectsGarbagePageToken(t *testing.T) {
	ts := setupTestServer(t)

	tokens := []string{
		"%%%not-base64%%%",
		base64.StdEncoding.EncodeToString([]byte("not json")),
		base64.StdEncoding.EncodeToString([]byte(`{"id":"abc","created_at":"yesterday"}`)),
	}
	for _, token := range tokens {
		w := ts.do(t, http.MethodGet, "/api/students?page_token="+url.QueryEscape(token), "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("token %q: expected 400, got %d: %s", token, w.Code, w.Body.String())
		}

		var resp struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Error.Type != "validation_error" {
			t.Fatalf("token %q: expected validation_error, got %q", token, resp.Error.Type)
		}
	}
}

func TestListStudentsRiskTierFilter(t *testing.T) {
	ts := setupTestServer(t)

	// No assessment stored yet, so the tier filter matches nobody.
	w := ts.do(t, http.MethodGet, "/api/students?risk_tier=High", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data studentdomain.ListStudentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Students) != 0 {
		t.Fatalf("expected no students before prediction, got %d", len(resp.Data.Students))
	}

	body := fmt.Sprintf(`{"student_id": %q}`, ts.studentID.String())
	if w := ts.do(t, http.MethodPost, "/api/predictions", body); w.Code != http.StatusOK {
		t.Fatalf("predict: %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/students?risk_tier=High", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp.Data = studentdomain.ListStudentResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Students) != 1 {
		t.Fatalf("expected 1 High-tier student, got %d", len(resp.Data.Students))
	}

	if w := ts.do(t, http.MethodGet, "/api/students?risk_tier=bogus", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid tier, got %d", w.Code)
	}
}

func TestGetStudentDetailIncludesAssessment(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/students/" + ts.studentID.String()

	body := fmt.Sprintf(`{"student_id": %q}`, ts.studentID.String())
	if w := ts.do(t, http.MethodPost, "/api/predictions", body); w.Code != http.StatusOK {
		t.Fatalf("predict: %d", w.Code)
	}

	w := ts.do(t, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Student        studentdomain.Student  `json:"student"`
			RiskAssessment *riskdomain.Assessment `json:"risk_assessment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Student.ID != ts.studentID {
		t.Fatalf("unexpected student id: %s", resp.Data.Student.ID)
	}
	if resp.Data.RiskAssessment == nil || resp.Data.RiskAssessment.RiskTier != riskdomain.TierHigh {
		t.Fatalf("expected embedded High assessment, got %+v", resp.Data.RiskAssessment)
	}
}

func TestNotesEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	path := "/api/students/" + ts.studentID.String() + "/notes"

	w := ts.do(t, http.MethodPost, path, `{"author": "advisor@campus.edu", "note_text": "Discussed study plan."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Blank note text is rejected.
	w = ts.do(t, http.MethodPost, path, `{"author": "advisor@campus.edu", "note_text": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank note, got %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []advisingnotedomain.Note `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 note, got %d", len(resp.Data))
	}
	if resp.Data[0].NoteText != "Discussed study plan." {
		t.Fatalf("unexpected note: %+v", resp.Data[0])
	}
}
