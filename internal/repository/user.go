package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/jobtracker/internal/database"
	"github.com/deppfellow/jobtracker/internal/errs"
	"github.com/deppfellow/jobtracker/internal/lib/hash"
	"github.com/deppfellow/jobtracker/internal/model"
	"github.com/deppfellow/jobtracker/internal/sqlerr"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Unique constraint names from the users migration.
const (
	UsersEmailKey    = "users_email_key"
	UsersUsernameKey = "users_username_key"
)

var userColumns = []string{
	"id", "email", "username", "full_name", "role", "hashed_password", "created_at", "last_login",
}

var (
	userReturning = "RETURNING " + strings.Join(userColumns, ", ")
	selectUser    = "SELECT " + strings.Join(userColumns, ", ") + " FROM users"

	registerUserSQL = `INSERT INTO users (id, email, username, full_name, role, hashed_password, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
` + userReturning

	getUserSQL           = selectUser + " WHERE id = $1"
	lockUserSQL          = getUserSQL + " FOR UPDATE"
	getUserByUsernameSQL = selectUser + " WHERE username = $1"
	listUsersSQL         = selectUser + " ORDER BY created_at, id LIMIT $1 OFFSET $2"
	deleteUserSQL        = "DELETE FROM users WHERE id = $1"
)

type UserRepository struct {
	db     database.Pool
	hasher hash.Hasher
	logger *zerolog.Logger
}

func NewUserRepository(db database.Pool, hasher hash.Hasher, logger *zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, hasher: hasher, logger: logger}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FullName,
		&u.Role,
		&u.HashedPassword,
		&u.CreatedAt,
		&u.LastLogin,
	)
	return u, err
}

// userConstraints attributes a unique violation to the email or username the
// caller supplied.
func userConstraints(email, username string) sqlerr.Constraints {
	return sqlerr.Constraints{
		UsersEmailKey: func() *errs.HTTPError {
			return errs.NewDuplicateEmailError(email)
		},
		UsersUsernameKey: func() *errs.HTTPError {
			return errs.NewDuplicateUsernameError(username)
		},
	}
}

func (r *UserRepository) hashPassword(ctx context.Context, op, plain string) (string, error) {
	hashed, err := r.hasher.Hash(plain)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		msg := fmt.Sprintf("must not exceed %d bytes", model.MaxPasswordBytes)
		return "", errs.NewBadRequestError("password "+msg, true, nil,
			[]errs.FieldError{{Field: "password", Error: msg}}, nil)
	}
	if err != nil {
		return "", storageError(ctx, r.logger, op, err, nil)
	}
	return hashed, nil
}

// Register stores a new user with a fresh id and the hash of in.Password.
func (r *UserRepository) Register(ctx context.Context, in *model.RegisterUserRequest) (*model.User, error) {
	hashed, err := r.hashPassword(ctx, "register user", in.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if in.Role != nil {
		role = *in.Role
	}

	var created model.User
	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := scanUser(tx.QueryRow(ctx, registerUserSQL,
			uuid.New(),
			in.Email,
			in.Username,
			in.FullName,
			string(role),
			hashed,
		))
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "register user", err, userConstraints(in.Email, in.Username))
	}

	return &created, nil
}

// GetByID returns the user with id, or NOT_FOUND.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserSQL, id))
	if err != nil {
		return nil, storageError(ctx, r.logger, "get user", userNotFound(err, id), nil)
	}
	return &u, nil
}

// GetByUsername returns the user named username, or NOT_FOUND.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, getUserByUsernameSQL, username))
	if err != nil {
		err = notFound(err, fmt.Sprintf("User '%s' not found", username))
		return nil, storageError(ctx, r.logger, "get user by username", err, nil)
	}
	return &u, nil
}

// List returns one page of users, oldest first.
func (r *UserRepository) List(ctx context.Context, params model.ListParams) ([]model.User, error) {
	page := params.Normalize()

	rows, err := r.db.Query(ctx, listUsersSQL, page.Limit, page.Skip)
	if err != nil {
		return nil, storageError(ctx, r.logger, "list users", err, nil)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "list users", err, nil)
	}

	return users, nil
}

func userNotFound(err error, id uuid.UUID) error {
	return notFound(err, fmt.Sprintf("User %s not found", id))
}

func (r *UserRepository) lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.User, error) {
	u, err := scanUser(tx.QueryRow(ctx, lockUserSQL, id))
	return u, userNotFound(err, id)
}

// Update applies the fields present in in to the user with id. A supplied
// password is hashed before it is written.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, in *model.UpdateUserRequest) (*model.User, error) {
	set := map[string]any{}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Username != nil {
		set["username"] = *in.Username
	}
	if in.FullName != nil {
		set["full_name"] = *in.FullName
	}
	if in.Role != nil {
		set["role"] = string(*in.Role)
	}
	if in.Password != nil {
		hashed, err := r.hashPassword(ctx, "update user", *in.Password)
		if err != nil {
			return nil, err
		}
		set["hashed_password"] = hashed
	}

	var updated model.User
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := r.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			updated = current
			return nil
		}

		query, args, err := psql.Update("users").
			SetMap(set).
			Where(sq.Eq{"id": id}).
			Suffix(userReturning).
			ToSql()
		if err != nil {
			return err
		}

		u, err := scanUser(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "update user", err, userConstraints(deref(in.Email), deref(in.Username)))
	}

	return &updated, nil
}

// Delete removes the user with id and returns its last state.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var deleted model.User
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := r.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteUserSQL, id); err != nil {
			return err
		}
		deleted = u
		return nil
	})
	if err != nil {
		return nil, storageError(ctx, r.logger, "delete user", err, nil)
	}

	return &deleted, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
