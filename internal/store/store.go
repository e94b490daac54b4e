// Package store provides SQLite-backed persistence for taskflow plans.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// Store provides access to the taskflow SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations. Tasks live inside the plan
// row as JSON: a plan is read and written as a unit, and task identity is
// positional within its plan.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		goal TEXT NOT NULL,
		timeframe TEXT,
		start_date DATETIME NOT NULL,
		tasks_json TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generation_logs (
		id TEXT PRIMARY KEY,
		plan_id TEXT,
		inputs_hash TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT,
		tokens_used INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_comments (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		task_id INTEGER NOT NULL,
		author TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (plan_id) REFERENCES plans(id)
	);

	CREATE INDEX IF NOT EXISTS idx_generation_logs_plan_id ON generation_logs(plan_id);
	CREATE INDEX IF NOT EXISTS idx_task_comments_plan_id ON task_comments(plan_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Plan Operations ---

// SavePlan inserts a plan.
func (s *Store) SavePlan(plan *models.Plan) error {
	tasksJSON, err := json.Marshal(plan.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO plans (id, goal, timeframe, start_date, tasks_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Goal, plan.Timeframe, plan.StartDate, string(tasksJSON), plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID. Returns (nil, nil) when not found.
func (s *Store) GetPlan(id string) (*models.Plan, error) {
	plan := &models.Plan{}
	var tasksJSON string
	var timeframe sql.NullString

	err := s.db.QueryRow(
		`SELECT id, goal, timeframe, start_date, tasks_json, created_at, updated_at FROM plans WHERE id = ?`,
		id,
	).Scan(&plan.ID, &plan.Goal, &timeframe, &plan.StartDate, &tasksJSON, &plan.CreatedAt, &plan.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	if timeframe.Valid {
		plan.Timeframe = timeframe.String
	}
	if err := json.Unmarshal([]byte(tasksJSON), &plan.Tasks); err != nil {
		return nil, fmt.Errorf("unmarshal tasks: %w", err)
	}
	return plan, nil
}

// ListPlans returns all plans, newest first.
func (s *Store) ListPlans() ([]models.Plan, error) {
	rows, err := s.db.Query(
		`SELECT id, goal, timeframe, start_date, tasks_json, created_at, updated_at FROM plans ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		var tasksJSON string
		var timeframe sql.NullString
		if err := rows.Scan(&plan.ID, &plan.Goal, &timeframe, &plan.StartDate, &tasksJSON, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if timeframe.Valid {
			plan.Timeframe = timeframe.String
		}
		if err := json.Unmarshal([]byte(tasksJSON), &plan.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// UpdatePlan rewrites a plan's mutable fields, including its tasks.
func (s *Store) UpdatePlan(plan *models.Plan) error {
	tasksJSON, err := json.Marshal(plan.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	plan.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(
		`UPDATE plans SET goal = ?, timeframe = ?, start_date = ?, tasks_json = ?, updated_at = ? WHERE id = ?`,
		plan.Goal, plan.Timeframe, plan.StartDate, string(tasksJSON), plan.UpdatedAt, plan.ID,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan and its comments. Reports whether a plan row
// was actually deleted.
func (s *Store) DeletePlan(id string) (bool, error) {
	if _, err := s.db.Exec(`DELETE FROM task_comments WHERE plan_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete plan comments: %w", err)
	}
	result, err := s.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return affected > 0, nil
}

// --- Comment Operations ---

// AddComment inserts a comment on a task within a plan.
func (s *Store) AddComment(planID string, taskID int, author, content string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:        uuid.New().String(),
		PlanID:    planID,
		TaskID:    taskID,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO task_comments (id, plan_id, task_id, author, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.PlanID, comment.TaskID, comment.Author, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the comments for one task in a plan, oldest first.
func (s *Store) ListComments(planID string, taskID int) ([]models.Comment, error) {
	rows, err := s.db.Query(
		`SELECT id, plan_id, task_id, author, content, created_at FROM task_comments WHERE plan_id = ? AND task_id = ? ORDER BY created_at ASC`,
		planID, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PlanID, &c.TaskID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment. Reports whether a row was deleted.
func (s *Store) DeleteComment(id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM task_comments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return affected > 0, nil
}

// --- Generation Log Operations ---

// LogGeneration records one synthesis attempt.
func (s *Store) LogGeneration(entry *models.GenerationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO generation_logs (id, plan_id, inputs_hash, prompt, response, tokens_used, duration_ms, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PlanID, entry.InputsHash, entry.Prompt, entry.Response, entry.TokensUsed, entry.DurationMS, entry.Outcome, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation log: %w", err)
	}
	return nil
}

// ListGenerationLogs returns the most recent synthesis records.
func (s *Store) ListGenerationLogs(limit int) ([]models.GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, plan_id, inputs_hash, prompt, response, tokens_used, duration_ms, outcome, created_at FROM generation_logs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query generation logs: %w", err)
	}
	defer rows.Close()

	var logs []models.GenerationLog
	for rows.Next() {
		var entry models.GenerationLog
		var planID sql.NullString
		var response sql.NullString
		if err := rows.Scan(&entry.ID, &planID, &entry.InputsHash, &entry.Prompt, &response, &entry.TokensUsed, &entry.DurationMS, &entry.Outcome, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation log: %w", err)
		}
		if planID.Valid {
			entry.PlanID = planID.String
		}
		if response.Valid {
			entry.Response = response.String
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
