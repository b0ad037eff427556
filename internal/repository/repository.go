// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every write runs inside database.WithTx and follows fetch-then-mutate, so a
// missing row surfaces as NOT_FOUND whether the caller reads, updates or
// deletes it.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/jobtracker/internal/errs"
	loggerPkg "github.com/deppfellow/jobtracker/internal/logger"
	"github.com/deppfellow/jobtracker/internal/sqlerr"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// psql builds Postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// storageError turns a failed operation into the error callers see.
//
// Typed errors pass through unchanged. Violations of a registered constraint
// become the error registered for it, other constraint violations become
// CONFLICT, and anything else is logged with its cause and reported as a
// generic INTERNAL_SERVER_ERROR.
func storageError(ctx context.Context, log *zerolog.Logger, op string, err error, constraints sqlerr.Constraints) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	l := loggerPkg.FromContext(ctx, log)

	if translated, ok := constraints.Translate(err); ok {
		l.Debug().Str("operation", op).Str("code", translated.Code).Msg("constraint violation")
		return translated
	}

	if _, ok := sqlerr.AsConstraintViolation(err); ok {
		l.Debug().Str("operation", op).Err(err).Msg("constraint violation")
		return sqlerr.HandleError(err)
	}

	l.Error().Str("operation", op).Err(err).Msg("storage operation failed")
	return errs.NewInternalServerError().WithCause(err)
}

// notFound converts pgx.ErrNoRows into a NOT_FOUND error with message and
// leaves every other error alone.
func notFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError(message, true, nil).WithCause(err)
	}
	return err
}
