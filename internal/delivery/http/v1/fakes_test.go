package v1

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

// memoryStore backs the fake user and task services with the same
// semantics as the Postgres implementation.
type memoryStore struct {
	mu     sync.Mutex
	seq    int
	users  map[string]*models.User
	tasks  map[string]*models.Task // by caller-supplied task id
	failOn error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[string]*models.User),
		tasks: make(map[string]*models.Task),
	}
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type fakeUserService struct{ *memoryStore }

func (s fakeUserService) Register(_ context.Context, params services.RegisterParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(params.Username) == "" || strings.TrimSpace(params.Email) == "" ||
		strings.TrimSpace(params.Password) == "" {
		return nil, services.ErrValidation
	}
	for _, u := range s.users {
		if u.Username == params.Username || u.Email == params.Email {
			return nil, services.ErrUserAlreadyExists
		}
	}
	hash, err := services.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:       s.nextID("user"),
		Username: params.Username,
		Email:    params.Email,
		Password: hash,
	}
	s.users[user.ID] = user
	return user, nil
}

func (s fakeUserService) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			if !services.VerifyPassword(password, u.Password) {
				return nil, services.ErrUserPasswordMismatch
			}
			return u, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func (s fakeUserService) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != nil {
		return nil, s.failOn
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	copied := *u
	copied.TaskIDs = append([]string(nil), u.TaskIDs...)
	return &copied, nil
}

func (s fakeUserService) MarkVerified(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return services.ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

type fakeTaskService struct{ *memoryStore }

func (s fakeTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Description) == "" {
		return nil, services.ErrValidation
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(params.Priority) {
		return nil, services.ErrInvalidTaskPriority
	}
	owner, ok := s.users[params.UserID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	if _, exists := s.tasks[params.TaskID]; exists {
		return nil, services.ErrTaskAlreadyExists
	}

	now := time.Now()
	task := &models.Task{
		ID:            s.nextID("task"),
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
	task.History.Add(models.StatusPending, task.ID)
	s.tasks[task.TaskID] = task
	owner.TaskIDs = append(owner.TaskIDs, task.ID)

	copied := *task
	return &copied, nil
}

func (s fakeTaskService) GetTasksByUserID(_ context.Context, userID string) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*models.Task, 0)
	owner, ok := s.users[userID]
	if !ok {
		return tasks, nil
	}
	for _, id := range owner.TaskIDs {
		for _, t := range s.tasks {
			if t.ID == id {
				copied := *t
				tasks = append(tasks, &copied)
			}
		}
	}
	return tasks, nil
}

func (s fakeTaskService) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[params.TaskID]
	if !ok || task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}
	if params.Priority != nil && !models.IsValidPriority(*params.Priority) {
		return nil, services.ErrInvalidTaskPriority
	}
	task.Title = params.Title
	task.Description = params.Description
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Deadline != nil {
		task.Deadline = *params.Deadline
	}
	copied := *task
	return &copied, nil
}

func (s fakeTaskService) UpdateTaskStatus(_ context.Context, params services.UpdateTaskStatusParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.IsValidStatus(params.Status) {
		return nil, services.ErrInvalidTaskStatus
	}
	task, ok := s.tasks[params.TaskID]
	if !ok || task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}
	task.CurrentStatus = params.Status
	task.History.Add(params.Status, task.ID)
	copied := *task
	return &copied, nil
}

func (s fakeTaskService) DeleteTask(_ context.Context, params services.DeleteTaskParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[params.TaskID]
	if !ok || task.UserID != params.UserID {
		return services.ErrTaskNotFound
	}
	delete(s.tasks, params.TaskID)

	owner := s.users[task.UserID]
	kept := owner.TaskIDs[:0]
	for _, id := range owner.TaskIDs {
		if id != task.ID {
			kept = append(kept, id)
		}
	}
	owner.TaskIDs = kept
	return nil
}

type fakeRevocationService struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeRevocationService() *fakeRevocationService {
	return &fakeRevocationService{revoked: make(map[string]time.Time)}
}

func (s *fakeRevocationService) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *fakeRevocationService) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type fakeVerificationService struct {
	mu    sync.Mutex
	sent  []string
	codes map[string]string
	users services.UserService
	err   error
}

func (s *fakeVerificationService) SendCode(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, user.ID)
	s.codes["code-"+user.ID] = user.ID
	return nil
}

func (s *fakeVerificationService) Redeem(ctx context.Context, code string) (string, error) {
	s.mu.Lock()
	userID, ok := s.codes[code]
	delete(s.codes, code)
	s.mu.Unlock()

	if !ok {
		return "", services.ErrVerificationCodeInvalid
	}
	return userID, s.users.MarkVerified(ctx, userID)
}
