package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type taskServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewTaskService(
	logger zerolog.Logger,
	db DB,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := requireFields(
		"taskId", params.TaskID,
		"title", params.Title,
		"description", params.Description,
		"userId", params.UserID,
	)
	if err != nil {
		return nil, err
	}

	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(params.Priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskPriority, params.Priority)
	}

	now := time.Now()
	task := &models.Task{
		TaskID:        params.TaskID,
		UserID:        params.UserID,
		Title:         params.Title,
		Description:   params.Description,
		Deadline:      now,
		Priority:      params.Priority,
		CurrentStatus: models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if params.Deadline != nil {
		task.Deadline = *params.Deadline
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectUserExistsQuery = `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`
	var exists bool
	err = tx.QueryRow(ctx, selectUserExistsQuery, task.UserID).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to check user existence")
		return nil, err
	}
	if !exists {
		s.logger.Error().
			Str("user_id", task.UserID).
			Msg("user not found")
		return nil, ErrUserNotFound
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   task_id,
                   user_id,
                   title,
                   description,
                   deadline,
                   priority,
                   current_status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.TaskID,
		task.UserID,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.CurrentStatus,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				s.logger.Error().
					Str("task_id", task.TaskID).
					Msg("task already exists")
				return nil, ErrTaskAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				s.logger.Error().
					Str("user_id", task.UserID).
					Msg("user not found")
				return nil, ErrUserNotFound
			}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	const insertUserTaskQuery = `
INSERT INTO user_tasks (user_id,
                        task_id,
                        added_at)
VALUES ($1, $2, $3)
`
	_, err = tx.Exec(ctx, insertUserTaskQuery, task.UserID, task.ID, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to append task to user")
		return nil, err
	}

	err = s.addToHistory(ctx, tx, task, now)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("id", task.ID).
		Str("task_id", task.TaskID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id,
       task_id,
       title,
       description,
       deadline,
       priority,
       current_status,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at
`
	rows, err := s.db.Query(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	byID := make(map[string]*models.Task)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.TaskID,
			&task.Title,
			&task.Description,
			&task.Deadline,
			&task.Priority,
			&task.CurrentStatus,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
		byID[task.ID] = task
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	if len(tasks) == 0 {
		s.logger.Debug().
			Str("user_id", userID).
			Msg("no tasks found")
		return tasks, nil
	}

	const selectHistoryByUserIDQuery = `
SELECT h.task_id,
       h.status
FROM task_status_history h
JOIN tasks t ON t.id = h.task_id
WHERE t.user_id = $1
ORDER BY h.added_at
`
	historyRows, err := s.db.Query(ctx, selectHistoryByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select status history")
		return nil, err
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var taskID, status string
		err = historyRows.Scan(&taskID, &status)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan status history")
			return nil, err
		}
		if task, ok := byID[taskID]; ok {
			task.History.Add(status, taskID)
		}
	}

	err = historyRows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over status history")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	err := requireFields(
		"taskId", params.TaskID,
		"title", params.Title,
		"description", params.Description,
	)
	if err != nil {
		return nil, err
	}
	if params.Priority != nil && !models.IsValidPriority(*params.Priority) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskPriority, *params.Priority)
	}

	task := &models.Task{
		TaskID:      params.TaskID,
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		UpdatedAt:   time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    deadline = COALESCE($3, deadline),
    priority = COALESCE($4, priority),
    updated_at = $5
WHERE task_id = $6 AND user_id = $7
RETURNING id, deadline, priority, current_status, created_at
`
	err = s.db.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		params.Deadline,
		params.Priority,
		task.UpdatedAt,
		task.TaskID,
		task.UserID,
	).Scan(
		&task.ID,
		&task.Deadline,
		&task.Priority,
		&task.CurrentStatus,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.TaskID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.TaskID).
			Msg("failed to update task")
		return nil, err
	}

	err = s.loadHistory(ctx, s.db, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.TaskID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error) {
	err := requireFields(
		"taskId", params.TaskID,
		"currentStatus", params.Status,
	)
	if err != nil {
		return nil, err
	}
	if !models.IsValidStatus(params.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskStatus, params.Status)
	}

	now := time.Now()
	task := &models.Task{
		TaskID:        params.TaskID,
		UserID:        params.UserID,
		CurrentStatus: params.Status,
		UpdatedAt:     now,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateTaskStatusQuery = `
UPDATE tasks
SET current_status = $1,
    updated_at = $2
WHERE task_id = $3 AND user_id = $4
RETURNING id, title, description, deadline, priority, created_at
`
	err = tx.QueryRow(
		ctx,
		updateTaskStatusQuery,
		task.CurrentStatus,
		task.UpdatedAt,
		task.TaskID,
		task.UserID,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.Priority,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.TaskID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.TaskID).
			Msg("failed to update task status")
		return nil, err
	}

	err = s.addToHistory(ctx, tx, task, now)
	if err != nil {
		return nil, err
	}

	err = s.loadHistory(ctx, tx, task)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.TaskID).
		Str("status", task.CurrentStatus).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	err := requireFields("taskId", params.TaskID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectTaskForDeleteQuery = `
SELECT id
FROM tasks
WHERE task_id = $1 AND user_id = $2
FOR UPDATE
`
	var id string
	err = tx.QueryRow(
		ctx,
		selectTaskForDeleteQuery,
		params.TaskID,
		params.UserID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", params.TaskID).
				Str("user_id", params.UserID).
				Msg("task not found")
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to select task")
		return err
	}

	// Children go first, the foreign keys are not cascading.
	deleteQueries := []string{
		`DELETE FROM user_tasks WHERE task_id = $1`,
		`DELETE FROM task_status_history WHERE task_id = $1`,
		`DELETE FROM tasks WHERE id = $1`,
	}
	for _, query := range deleteQueries {
		_, err = tx.Exec(ctx, query, id)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", params.TaskID).
				Msg("failed to delete task")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("task_id", params.TaskID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) addToHistory(ctx context.Context, tx pgx.Tx, task *models.Task, at time.Time) error {
	const insertHistoryQuery = `
INSERT INTO task_status_history (task_id,
                                 status,
                                 added_at)
VALUES ($1, $2, $3)
ON CONFLICT (task_id, status) DO NOTHING
`
	_, err := tx.Exec(ctx, insertHistoryQuery, task.ID, task.CurrentStatus, at)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.TaskID).
			Str("status", task.CurrentStatus).
			Msg("failed to insert status history")
		return err
	}

	task.History.Add(task.CurrentStatus, task.ID)
	return nil
}

func (s *taskServiceImpl) loadHistory(ctx context.Context, q queryer, task *models.Task) error {
	const selectHistoryQuery = `
SELECT status
FROM task_status_history
WHERE task_id = $1
ORDER BY added_at
`
	rows, err := q.Query(ctx, selectHistoryQuery, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.TaskID).
			Msg("failed to select status history")
		return err
	}

	statuses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to collect status history")
		return err
	}

	task.History = models.StatusHistory{}
	for _, status := range statuses {
		task.History.Add(status, task.ID)
	}
	return nil
}

// requireFields takes name/value pairs and reports the first blank value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, pairs[i])
		}
	}
	return nil
}
