package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

type statusHistoryResponse struct {
	Pending   []string `json:"pending"`
	Ongoing   []string `json:"ongoing"`
	Completed []string `json:"completed"`
}

type taskResponse struct {
	ID            string                `json:"id"`
	TaskID        string                `json:"taskId"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Deadline      time.Time             `json:"deadline"`
	Priority      string                `json:"priority"`
	CurrentStatus string                `json:"currentStatus"`
	User          string                `json:"user"`
	Status        statusHistoryResponse `json:"status"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:            task.ID,
		TaskID:        task.TaskID,
		Title:         task.Title,
		Description:   task.Description,
		Deadline:      task.Deadline,
		Priority:      task.Priority,
		CurrentStatus: task.CurrentStatus,
		User:          task.UserID,
		Status: statusHistoryResponse{
			Pending:   nonNil(task.History.Pending),
			Ongoing:   nonNil(task.History.Ongoing),
			Completed: nonNil(task.History.Completed),
		},
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type createTaskRequest struct {
	TaskID      string  `json:"taskId" binding:"required,max=255"`
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
	UserID      string  `json:"userId" binding:"required"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse deadline")
		abort(c, newBadRequestError(errInvalidDeadline.Error()))
		return
	}

	if req.UserID != userID {
		// An unknown owner is reported as such before the ownership check.
		_, err = h.users.GetUserByID(c, req.UserID)
		if err == nil {
			err = services.ErrTaskOwnerMismatch
		}
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("owner_id", req.UserID).
			Msg("task owner rejected")
		abort(c, newServiceError(err))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		TaskID:      req.TaskID,
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    deadline,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Task created successfully",
		Data:    newTaskResponse(task),
	})
}

type userTasksResponse struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Tasks    []taskResponse `json:"tasks"`
}

func (h *handlerImpl) HandleGetUserTaskData(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		abort(c, newServiceError(err))
		return
	}

	tasks, err := h.tasks.GetTasksByUserID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, newServiceError(err))
		return
	}
	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")

	response := userTasksResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Tasks:    make([]taskResponse, len(tasks)),
	}
	for i, task := range tasks {
		response.Tasks[i] = newTaskResponse(task)
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "User found",
		Data:    gin.H{"user": response},
	})
}

type updateTaskRequest struct {
	TaskID      string  `json:"taskId" binding:"required"`
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"required"`
	Deadline    *string `json:"deadline"`
	Priority    *string `json:"priority"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse deadline")
		abort(c, newBadRequestError(errInvalidDeadline.Error()))
		return
	}

	if req.Priority != nil && *req.Priority == "" {
		req.Priority = nil
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		TaskID:      req.TaskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    deadline,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Task updated successfully",
		Task:    newTaskResponse(task),
	})
}

type updateStatusRequest struct {
	TaskID        string `json:"taskId" binding:"required"`
	CurrentStatus string `json:"currentStatus" binding:"required"`
}

func (h *handlerImpl) HandleUpdateStatus(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c, services.UpdateTaskStatusParams{
		TaskID: req.TaskID,
		UserID: userID,
		Status: req.CurrentStatus,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task status")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Task updated successfully",
		Task:    newTaskResponse(task),
	})
}

type deleteTaskRequest struct {
	TaskID string `json:"taskId" binding:"required"`
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.mustGetUserID(c)
	if !ok {
		return
	}

	var req deleteTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBindError(err))
		return
	}

	err = h.tasks.DeleteTask(c, services.DeleteTaskParams{
		TaskID: req.TaskID,
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// parseDeadline accepts RFC 3339 timestamps and plain dates as sent by
// date inputs. Missing or empty values mean "not set".
func parseDeadline(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		t, err = time.Parse(time.DateOnly, *value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
