package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-ai/taskflow/internal/llm"
	"github.com/taskflow-ai/taskflow/internal/logger"
	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/notify"
	"github.com/taskflow-ai/taskflow/internal/planner"
)

// Server provides the HTTP API for taskflow.
type Server struct {
	service *Service
	hub     *notify.Hub
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, hub *notify.Hub, addr string) *Server {
	return &Server{
		service: service,
		hub:     hub,
		addr:    addr,
	}
}

// Handler builds the routing table wrapped in the monitoring middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Plan endpoints
	mux.HandleFunc("/api/plans", s.handlePlans)
	mux.HandleFunc("/api/plans/", s.handlePlanByID)

	// Dashboard endpoints
	mux.HandleFunc("/api/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/generations", s.handleGenerations)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/metrics", s.handleMetrics)

	// Progress streaming
	mux.HandleFunc("/api/events/", s.handleEvents)

	return s.monitor(mux)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// No write timeout: plan generation and SSE streams are long-lived
	}

	logger.Info("HTTP server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handlePlans handles POST /api/plans and GET /api/plans
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createPlan(w, r)
	case http.MethodGet:
		s.listPlans(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePlanByID handles /api/plans/{id}/*
func (s *Server) handlePlanByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "plan id required", http.StatusBadRequest)
		return
	}

	planID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getPlan(w, r, planID)
	case action == "" && r.Method == http.MethodPut:
		s.regeneratePlan(w, r, planID)
	case action == "" && r.Method == http.MethodDelete:
		s.deletePlan(w, r, planID)
	case action == "tasks" && len(parts) > 2:
		s.handleTask(w, r, planID, parts[2:])
	case action == "suggestions" && r.Method == http.MethodGet:
		s.getSuggestions(w, r, planID)
	case action == "optimize" && r.Method == http.MethodPost:
		s.optimizePlan(w, r, planID)
	case action == "export" && len(parts) > 2 && parts[2] == "calendar" && r.Method == http.MethodGet:
		s.exportCalendar(w, r, planID)
	case action == "analytics" && r.Method == http.MethodGet:
		s.getPlanAnalytics(w, r, planID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleTask handles /api/plans/{id}/tasks/{taskID}/*
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request, planID string, parts []string) {
	taskID, err := strconv.Atoi(parts[0])
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodPatch:
		s.updateTask(w, r, planID, taskID)
	case action == "status" && r.Method == http.MethodPatch:
		s.updateTaskStatus(w, r, planID, taskID)
	case action == "subtasks" && r.Method == http.MethodPost:
		s.generateSubtasks(w, r, planID, taskID)
	case action == "comments" && r.Method == http.MethodPost:
		s.addComment(w, r, planID, taskID)
	case action == "comments" && r.Method == http.MethodGet:
		s.listComments(w, r, planID, taskID)
	case action == "comments" && len(parts) > 2 && r.Method == http.MethodDelete:
		s.deleteComment(w, r, parts[2])
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// --- Plan Handlers ---

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Goal) == "" {
		http.Error(w, "goal is required", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	useCache := q.Get("use_cache") != "false"
	clientID := q.Get("client_id")
	if clientID == "" {
		clientID = r.RemoteAddr
	}
	sessionID := q.Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	plan, cached, err := s.service.GeneratePlan(r.Context(), req, sessionID, clientID, useCache)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if cached {
		w.Header().Set("X-Cache", "hit")
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.service.ListPlans()
	if err != nil {
		writeError(w, err)
		return
	}

	if plans == nil {
		plans = []models.Plan{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request, planID string) {
	plan, err := s.service.GetPlan(planID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

func (s *Server) regeneratePlan(w http.ResponseWriter, r *http.Request, planID string) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	plan, err := s.service.RegeneratePlan(r.Context(), planID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request, planID string) {
	if err := s.service.DeletePlan(planID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"deleted"}`))
}

// --- Task Handlers ---

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, planID string, taskID int) {
	var update TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	task, err := s.service.UpdateTask(planID, taskID, update)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request, planID string, taskID int) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	task, err := s.service.UpdateTaskStatus(planID, taskID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (s *Server) generateSubtasks(w http.ResponseWriter, r *http.Request, planID string, taskID int) {
	subtasks, err := s.service.GenerateSubtasks(r.Context(), planID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(subtasks)
}

// --- Comment Handlers ---

type commentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, planID string, taskID int) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	if req.Author == "" {
		req.Author = "anonymous"
	}

	comment, err := s.service.AddComment(planID, taskID, req.Author, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, planID string, taskID int) {
	comments, err := s.service.ListComments(planID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, commentID string) {
	if err := s.service.DeleteComment(commentID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"deleted"}`))
}

// --- Insight Handlers ---

func (s *Server) getSuggestions(w http.ResponseWriter, r *http.Request, planID string) {
	suggestions, err := s.service.SuggestNextTasks(planID)
	if err != nil {
		writeError(w, err)
		return
	}

	if suggestions == nil {
		suggestions = []planner.Suggestion{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}

func (s *Server) optimizePlan(w http.ResponseWriter, r *http.Request, planID string) {
	goal := r.URL.Query().Get("goal")
	if goal == "" {
		goal = "time"
	}
	if !planner.ValidOptimizationGoal(goal) {
		http.Error(w, "invalid optimization goal", http.StatusBadRequest)
		return
	}

	result, err := s.service.OptimizePlan(r.Context(), planID, goal)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) exportCalendar(w http.ResponseWriter, r *http.Request, planID string) {
	calendar, err := s.service.ExportCalendar(planID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.ics"`)
	w.Write([]byte(calendar))
}

// --- Dashboard Handlers ---

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := s.service.Analytics()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (s *Server) getPlanAnalytics(w http.ResponseWriter, r *http.Request, planID string) {
	summary, err := s.service.PlanAnalytics(planID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// handleGenerations handles GET /api/generations, the synthesis audit log.
func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	logs, err := s.service.RecentGenerations(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if logs == nil {
		logs = []models.GenerationLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.service.Health(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if report.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.service.Metrics())
}

// handleEvents handles GET /api/events/{sessionID} as an SSE stream.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}
	s.hub.ServeSession(w, r, sessionID)
}

// writeError maps service errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var connErr *llm.ConnectionError
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
	case planner.IsRejection(err):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &connErr):
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
