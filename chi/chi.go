// Package chi implements a scripted stand-in for the platform API. It
// serves the generation stream from a [Script] and the course endpoints
// from the courses it has generated, for local development and tests.
package chi

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samarthsinh2660/fluentify"
)

// Server is an http.Handler that plays a Script.
type Server struct {
	router chi.Router
	script Script
	token  string
	logger *slog.Logger

	mu      sync.Mutex
	courses map[int]fluentify.CourseSummary
}

// Option configures a [Server].
type Option func(*Server)

// WithToken requires requests to carry this bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a Server playing script.
func NewServer(script Script, opts ...Option) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		script:  script,
		logger:  slog.New(slog.DiscardHandler),
		courses: make(map[int]fluentify.CourseSummary),
	}
	for _, o := range opts {
		o(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	s.router.Route("/api/courses", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/", s.handleCourses)
		r.Get("/generate-stream", s.handleGenerate)
		r.Get("/{id}", s.handleCourse)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || got != s.token {
				writeError(w, http.StatusUnauthorized, "Invalid or missing token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := fluentify.Params{
		Language:         q.Get("language"),
		ExpectedDuration: q.Get("expectedDuration"),
		Expertise:        q.Get("expertise"),
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.script.Status != 0 {
		writeError(w, s.script.Status, "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for i, f := range s.script.Frames {
		if s.script.Delay > 0 {
			t := time.NewTimer(s.script.Delay)
			select {
			case <-r.Context().Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		text := fmt.Sprintf("event: %s\ndata: %s\n\n", f.Event, f.Data)
		if s.script.TruncateAfter > 0 && i == s.script.TruncateAfter {
			_, _ = io.WriteString(w, text[:len(text)/2])
			flusher.Flush()
			return
		}
		if _, err := io.WriteString(w, text); err != nil {
			return
		}
		flusher.Flush()
		s.record(params, f)
	}
}

// record tracks generated courses so the course endpoints can list them.
func (s *Server) record(params fluentify.Params, f ScriptFrame) {
	if f.Event != fluentify.EventNameCourseCreated {
		return
	}
	var created struct {
		CourseID   int `json:"courseId"`
		TotalUnits int `json:"totalUnits"`
	}
	if json.Unmarshal([]byte(f.Data), &created) != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[created.CourseID] = fluentify.CourseSummary{
		ID:               created.CourseID,
		Language:         params.Language,
		Title:            params.Language + " for " + strings.ToLower(params.Expertise) + " learners",
		ExpectedDuration: params.ExpectedDuration,
		TotalUnits:       created.TotalUnits,
	}
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]fluentify.CourseSummary, 0, len(s.courses))
	for _, c := range s.courses {
		list = append(list, c)
	}
	s.mu.Unlock()
	slices.SortFunc(list, func(a, b fluentify.CourseSummary) int { return cmp.Compare(a.ID, b.ID) })
	writeData(w, list)
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}
	s.mu.Lock()
	c, ok := s.courses[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	writeData(w, c)
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": false}
	if msg != "" {
		body["message"] = msg
	}
	_ = json.NewEncoder(w).Encode(body)
}
