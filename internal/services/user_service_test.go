package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

func TestUserServiceRegister(t *testing.T) {
	mock := newMockPool(t)
	s := NewUserService(zerolog.Nop(), mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "alice@x.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, err := s.Register(context.Background(), RegisterParams{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("user.ID is empty")
	}
	if user.Password == "pw123" {
		t.Error("password stored in plain text")
	}
	if !VerifyPassword("pw123", user.Password) {
		t.Error("stored hash does not verify the original password")
	}
	if user.IsVerified {
		t.Error("new user is already verified")
	}
	assertExpectations(t, mock)
}

func TestUserServiceRegisterConflict(t *testing.T) {
	mock := newMockPool(t)
	s := NewUserService(zerolog.Nop(), mock)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "users_email_key",
		})

	_, err := s.Register(context.Background(), RegisterParams{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw123",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("Register() error = %v, want ErrUserAlreadyExists", err)
	}
	assertExpectations(t, mock)
}

func TestUserServiceRegisterBlankFields(t *testing.T) {
	tests := []struct {
		name   string
		params RegisterParams
	}{
		{name: "blank username", params: RegisterParams{Username: "   ", Email: "alice@x.com", Password: "pw123"}},
		{name: "blank email", params: RegisterParams{Username: "alice", Email: "\t", Password: "pw123"}},
		{name: "blank password", params: RegisterParams{Username: "alice", Email: "alice@x.com", Password: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewUserService(zerolog.Nop(), mock)

			_, err := s.Register(context.Background(), tt.params)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			assertExpectations(t, mock)
		})
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	now := time.Now()
	columns := []string{"id", "username", "password", "is_verified", "created_at", "updated_at"}

	tests := []struct {
		name     string
		password string
		setup    func(mock pgxmock.PgxPoolIface)
		wantErr  error
	}{
		{
			name:     "correct password",
			password: "pw123",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT id").
					WithArgs("alice@x.com").
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow("alice-id", "alice", hash, false, now, now))
			},
		},
		{
			name:     "wrong password",
			password: "nope",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT id").
					WithArgs("alice@x.com").
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow("alice-id", "alice", hash, false, now, now))
			},
			wantErr: ErrUserPasswordMismatch,
		},
		{
			name:     "unknown email",
			password: "pw123",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT id").
					WithArgs("alice@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewUserService(zerolog.Nop(), mock)
			tt.setup(mock)

			user, err := s.Authenticate(context.Background(), "alice@x.com", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.ID != "alice-id" {
				t.Errorf("Authenticate().ID = %q, want alice-id", user.ID)
			}
			assertExpectations(t, mock)
		})
	}
}

func TestUserServiceGetUserByID(t *testing.T) {
	mock := newMockPool(t)
	s := NewUserService(zerolog.Nop(), mock)

	now := time.Now()
	mock.ExpectQuery("SELECT username").
		WithArgs("alice-id").
		WillReturnRows(pgxmock.NewRows([]string{"username", "email", "password", "is_verified", "created_at", "updated_at"}).
			AddRow("alice", "alice@x.com", "hash", true, now, now))
	mock.ExpectQuery("SELECT task_id").
		WithArgs("alice-id").
		WillReturnRows(pgxmock.NewRows([]string{"task_id"}).AddRow("uuid-1").AddRow("uuid-2"))

	user, err := s.GetUserByID(context.Background(), "alice-id")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Username != "alice" || !user.IsVerified {
		t.Errorf("GetUserByID() = %+v, want verified alice", user)
	}
	if len(user.TaskIDs) != 2 || user.TaskIDs[0] != "uuid-1" {
		t.Errorf("user.TaskIDs = %v, want [uuid-1 uuid-2]", user.TaskIDs)
	}
	assertExpectations(t, mock)
}

func TestUserServiceMarkVerified(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewUserService(zerolog.Nop(), mock)

		mock.ExpectExec("UPDATE users").
			WithArgs(pgxmock.AnyArg(), "alice-id").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		if err := s.MarkVerified(context.Background(), "alice-id"); err != nil {
			t.Fatalf("MarkVerified() error = %v", err)
		}
		assertExpectations(t, mock)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewUserService(zerolog.Nop(), mock)

		mock.ExpectExec("UPDATE users").
			WithArgs(pgxmock.AnyArg(), "ghost").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := s.MarkVerified(context.Background(), "ghost")
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("MarkVerified() error = %v, want ErrUserNotFound", err)
		}
		assertExpectations(t, mock)
	})
}
