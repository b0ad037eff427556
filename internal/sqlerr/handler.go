package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/jobtracker/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// AsConstraintViolation extracts the structured error when err is an
// integrity or shape violation.
func AsConstraintViolation(err error) (*Error, bool) {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return nil, false
	}
	sqlErr := ConvertPgError(pgerr)
	if !sqlErr.Code.IsConstraintViolation() {
		return nil, false
	}
	return sqlErr, true
}

// Constraints maps named database constraints to the error a violation
// raises. Repositories declare one per write so duplicate detection keys on
// the constraint name the schema defines, never on message text.
type Constraints map[string]func() *errs.HTTPError

// Translate returns the registered error for err's constraint, with err
// recorded as its cause. ok is false when err is not a violation of a
// registered constraint.
func (c Constraints) Translate(err error) (*errs.HTTPError, bool) {
	sqlErr, ok := AsConstraintViolation(err)
	if !ok || sqlErr.ConstraintName == "" {
		return nil, false
	}
	build, ok := c[sqlErr.ConstraintName]
	if !ok {
		return nil, false
	}
	return build().WithCause(err), true
}

// formatUserFriendlyMessage produces an end-user-facing message from the
// table/column metadata Postgres attaches to the error.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entityName, humanizeText(column))
		}
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case StringTooLong:
		return "One or more values are too long"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name: "user_id" -> "User", then the table
// name singularized, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint
// name. Supports "unique_<table>_<column>" and "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeySuffix.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an application error.
//
//   - *errs.HTTPError: returned unchanged
//   - constraint violation: CONFLICT with a message built from the metadata
//   - no rows: NOT_FOUND
//   - anything else: INTERNAL_SERVER_ERROR with err as the hidden cause
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if sqlErr, ok := AsConstraintViolation(err); ok {
		return errs.NewConflictError(formatUserFriendlyMessage(sqlErr), true).WithCause(err)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil).WithCause(err)
	}

	return errs.NewInternalServerError().WithCause(err)
}

// Translator is the boundary translator for raw database errors that escaped
// a repository.
func Translator() errs.Translator {
	return errs.Translator{
		Name: "database",
		Match: func(err error) bool {
			var pgerr *pgconn.PgError
			return errors.As(err, &pgerr) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
		},
		Convert: func(err error) *errs.HTTPError {
			var httpErr *errs.HTTPError
			errors.As(HandleError(err), &httpErr)
			return httpErr
		},
	}
}
