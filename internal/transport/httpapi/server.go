// Package httpapi exposes the service over a thin chi HTTP surface.
// Request validation and routing live here; all behavior lives in the
// use case layer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/usecase/answer"
	"github.com/toth-cloud/toth/internal/usecase/health"
	"github.com/toth-cloud/toth/internal/usecase/ingest"
	"github.com/toth-cloud/toth/internal/usecase/quiz"
	"github.com/toth-cloud/toth/internal/usecase/retrieval"
)

// TeacherLister reads the teacher roster.
type TeacherLister interface {
	Teachers(ctx context.Context) ([]string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	answers   *answer.Service
	retriever *retrieval.Service
	quizzes   *quiz.Service
	ingestor  *ingest.Service
	health    *health.Service
	teachers  TeacherLister
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	answers *answer.Service,
	retriever *retrieval.Service,
	quizzes *quiz.Service,
	ingestor *ingest.Service,
	healthSvc *health.Service,
	teachers TeacherLister,
	logger *zap.Logger,
) *Server {
	return &Server{
		answers:   answers,
		retriever: retriever,
		quizzes:   quizzes,
		ingestor:  ingestor,
		health:    healthSvc,
		teachers:  teachers,
		logger:    logger,
	}
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/ask", s.handleAsk)
	r.Post("/search", s.handleSearch)
	r.Post("/quiz", s.handleQuiz)
	r.Post("/documents", s.handleIngest)
	r.Get("/teachers", s.handleTeachers)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type askRequest struct {
	Query   string `json:"query"`
	K       int    `json:"k"`
	Room    string `json:"room,omitempty"`
	Year    string `json:"year,omitempty"`
	Subject string `json:"subject,omitempty"`
}

type askResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.writeBadRequest(w, "query is required")
		return
	}

	text, err := s.answers.Answer(r.Context(), req.Query, req.K, filtersFrom(req.Room, req.Year, req.Subject))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, askResponse{Role: "ai", Content: text})
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Similarity     float64 `json:"similarity"`
	Content        string  `json:"content"`
	CreatedAt      string  `json:"created_at"`
	TimeOfRecord   string  `json:"time_of_record"`
	TeacherName    string  `json:"teacher_name"`
	TeacherSubject string  `json:"teacher_subject"`
	StudentYear    string  `json:"student_year"`
	StudentRoom    string  `json:"student_room"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.writeBadRequest(w, "query is required")
		return
	}

	candidates, err := s.retriever.Retrieve(r.Context(), req.Query, req.K, filtersFrom(req.Room, req.Year, req.Subject))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results := make([]searchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, searchResult{
			Similarity:     c.Similarity,
			Content:        c.Document.Content,
			CreatedAt:      c.Document.CreatedAt,
			TimeOfRecord:   c.Document.TimeOfRecord,
			TeacherName:    c.Document.TeacherName,
			TeacherSubject: c.Document.TeacherSubject,
			StudentYear:    c.Document.StudentYear,
			StudentRoom:    c.Document.StudentRoom,
		})
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

type quizRequest struct {
	Subject string `json:"subject"`
	K       int    `json:"k"`
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Subject == "" {
		s.writeBadRequest(w, "subject is required")
		return
	}

	q, err := s.quizzes.Generate(r.Context(), req.Subject, req.K)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

type ingestRequest struct {
	Content        string `json:"content"`
	TeacherName    string `json:"teacher_name"`
	TeacherSubject string `json:"teacher_subject"`
	StudentYear    string `json:"student_year"`
	StudentRoom    string `json:"student_room"`
	TimeSummit     string `json:"time_summit"`
	TimeOfRecord   string `json:"time_of_record"`
}

type ingestResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Content == "" {
		s.writeBadRequest(w, "content is required")
		return
	}

	doc, err := s.ingestor.Ingest(r.Context(), ingest.Input{
		Content:        req.Content,
		TeacherName:    req.TeacherName,
		TeacherSubject: req.TeacherSubject,
		StudentYear:    req.StudentYear,
		StudentRoom:    req.StudentRoom,
		TimeSummit:     req.TimeSummit,
		TimeOfRecord:   req.TimeOfRecord,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ingestResponse{ID: doc.ID, Message: "Document added successfully"})
}

func (s *Server) handleTeachers(w http.ResponseWriter, r *http.Request) {
	names, err := s.teachers.Teachers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"teachers": names})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != health.Healthy {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func filtersFrom(room, year, subject string) domain.Filters {
	return domain.Filters{Room: room, Year: year, Subject: subject}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain sentinels to statuses and the fixed outward
// phrases. Raw error detail is logged, never returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrSystemOff):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: "system_off", Message: domain.MsgSystemOff})
	case errors.Is(err, domain.ErrSystemUnknown):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: "system_unknown", Message: domain.MsgSystemUnknown})
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Code: "validation_failed", Message: err.Error()})
	case errors.Is(err, domain.ErrNoDocuments):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: domain.MsgNotFound})
	case errors.Is(err, domain.ErrQuizParse), errors.Is(err, domain.ErrGenerationParse):
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Code: "parse_failed", Message: domain.MsgGenerationUnparsable})
	default:
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Code: "upstream_failed", Message: domain.MsgGenerationFailed})
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}
