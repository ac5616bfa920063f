package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pageza/foodgram/backend/internal/models"
)

type ViolationKind string

const (
	ViolationUnique     ViolationKind = "unique"
	ViolationCheck      ViolationKind = "check"
	ViolationForeignKey ViolationKind = "foreign_key"
)

// ConstraintViolation is a driver-neutral view of an integrity error.
type ConstraintViolation struct {
	Kind    ViolationKind
	Name    string
	Table   string
	Columns []string
	Err     error
}

func (v *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s constraint violated (%s): %v", v.Kind, v.identity(), v.Err)
}

func (v *ConstraintViolation) Unwrap() error {
	return v.Err
}

// Matches reports whether the violation refers to the given constraint.
func (v *ConstraintViolation) Matches(c models.Constraint) bool {
	return c.Matches(v.Name, v.Table, v.Columns)
}

func (v *ConstraintViolation) identity() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Table + "(" + strings.Join(v.Columns, ", ") + ")"
}

// AsConstraintViolation extracts a constraint violation from a PostgreSQL
// or SQLite driver error. It returns false for every other error.
func AsConstraintViolation(err error) (*ConstraintViolation, bool) {
	if err == nil {
		return nil, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, ok := pgKinds[pgErr.Code]
		if !ok {
			return nil, false
		}
		return &ConstraintViolation{
			Kind:  kind,
			Name:  pgErr.ConstraintName,
			Table: pgErr.TableName,
			Err:   err,
		}, true
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		return fromSQLite(sqErr, err), true
	}

	return nil, false
}

var pgKinds = map[string]ViolationKind{
	"23505": ViolationUnique,
	"23514": ViolationCheck,
	"23503": ViolationForeignKey,
}

// fromSQLite parses messages such as
// "UNIQUE constraint failed: favorites.user_id, favorites.recipe_id" and
// "CHECK constraint failed: prevent_self_follow".
func fromSQLite(sqErr sqlite3.Error, wrapped error) *ConstraintViolation {
	v := &ConstraintViolation{Err: wrapped}
	msg := sqErr.Error()
	_, detail, _ := strings.Cut(msg, "constraint failed: ")

	switch sqErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		v.Kind = ViolationUnique
		for _, col := range strings.Split(detail, ",") {
			table, column, ok := strings.Cut(strings.TrimSpace(col), ".")
			if !ok {
				continue
			}
			v.Table = table
			v.Columns = append(v.Columns, column)
		}
	case sqlite3.ErrConstraintCheck:
		v.Kind = ViolationCheck
		v.Name = strings.TrimSpace(detail)
	case sqlite3.ErrConstraintForeignKey:
		v.Kind = ViolationForeignKey
	default:
		v.Kind = ViolationCheck
	}
	return v
}
