package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/taskboard/internal/models"
)

// Validation errors.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// Authentication errors.
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrTaskNotFound            = errors.New("task not found")
	ErrVerificationCodeInvalid = errors.New("verification code is invalid or expired")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrTaskAlreadyExists       = errors.New("task already exists")
	ErrTaskOwnerMismatch       = errors.New("task owner does not match the authenticated user")
)

// Configuration errors.
var (
	ErrSigningKeyNotConfigured = errors.New("token signing secret is not configured")
	ErrDatabaseNotConfigured   = errors.New("database uri is not configured")
)

// DB is the subset of *pgxpool.Pool used by the stores.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TokenService interface {
	// Issue signs an identity token for the given user. It returns
	// ErrSigningKeyNotConfigured if no signing secret was provided.
	Issue(userID, email string) (*IssuedToken, error)

	// Verify parses the token and returns its claims. It returns
	// ErrInvalidToken if the token is missing, malformed, expired or
	// signed with a different key.
	Verify(token string) (*Claims, error)
}

type UserService interface {
	// Register hashes the password and inserts a new user.
	//
	// It returns ErrValidation if a field is blank and
	// ErrUserAlreadyExists if the username or the email
	// is already taken.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Authenticate looks the user up by email and checks the password.
	//
	// It returns ErrUserNotFound if no user has the given email or
	// ErrUserPasswordMismatch if the password doesn't match.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// GetUserByID returns the user along with the ids of its tasks.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	MarkVerified(ctx context.Context, userID string) error
}

type TaskService interface {
	// CreateTask inserts the task, appends it to the owner's task list
	// and records it as pending, all in one transaction. The pending
	// history set therefore lists a task from the moment it is created,
	// not only after an explicit transition back to pending.
	//
	// It returns ErrUserNotFound if the owner doesn't exist and
	// ErrTaskAlreadyExists if the task id is taken.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasksByUserID returns every task owned by the user.
	GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// UpdateTaskStatus sets the current status and adds the task to
	// the matching status history set.
	UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error)

	// DeleteTask removes the task together with its owner reference
	// and history. It returns ErrTaskNotFound if nothing was deleted.
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type RevocationService interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type VerificationService interface {
	// SendCode stores a one-time code for the user and mails it.
	SendCode(ctx context.Context, user *models.User) error

	// Redeem consumes the code and marks its user as verified.
	// It returns ErrVerificationCodeInvalid for unknown or used codes.
	Redeem(ctx context.Context, code string) (string, error)
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type CreateTaskParams struct {
	TaskID      string
	UserID      string
	Title       string
	Description string
	Priority    string
	Deadline    *time.Time
}

type UpdateTaskParams struct {
	TaskID      string
	UserID      string
	Title       string
	Description string
	Priority    *string
	Deadline    *time.Time
}

type UpdateTaskStatusParams struct {
	TaskID string
	UserID string
	Status string
}

type DeleteTaskParams struct {
	TaskID string
	UserID string
}
