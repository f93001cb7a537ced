package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewUserService(
	logger zerolog.Logger,
	db DB,
) UserService {
	return &userServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	err := requireFields(
		"username", params.Username,
		"email", params.Email,
		"password", params.Password,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid user")
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:  params.Username,
		Email:     params.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	user.Password, err = HashPassword(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	const insertUserQuery = `
INSERT INTO users (id,
                   username,
                   email,
                   password,
                   is_verified,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, FALSE, $5, $6)
`
	_, err = s.db.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("username", user.Username).
				Str("email", user.Email).
				Str("constraint", pgErr.ConstraintName).
				Msg("user already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{Email: email}

	const selectUserByEmailQuery = `
SELECT id,
       username,
       password,
       is_verified,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	err := s.db.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}

	if !VerifyPassword(password, user.Password) {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("authenticated user")
	return user, nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{ID: userID}

	const selectUserByIDQuery = `
SELECT username,
       email,
       password,
       is_verified,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err := s.db.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Username,
		&user.Email,
		&user.Password,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}

	const selectUserTaskIDsQuery = `
SELECT task_id
FROM user_tasks
WHERE user_id = $1
ORDER BY added_at
`
	rows, err := s.db.Query(ctx, selectUserTaskIDsQuery, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user task ids")
		return nil, err
	}

	user.TaskIDs, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to collect user task ids")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int("tasks", len(user.TaskIDs)).
		Msg("selected user by id")

	return user, nil
}

func (s *userServiceImpl) MarkVerified(ctx context.Context, userID string) error {
	const updateUserVerifiedQuery = `
UPDATE users
SET is_verified = TRUE,
    updated_at = $1
WHERE id = $2
`
	tag, err := s.db.Exec(
		ctx,
		updateUserVerifiedQuery,
		time.Now(),
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to mark user as verified")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("user_id", userID).
			Msg("user not found")
		return ErrUserNotFound
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("verified user")
	return nil
}
