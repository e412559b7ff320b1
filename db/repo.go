package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the lookup matched zero rows.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means a business-key lookup matched more than one active
	// row. The partial unique index should prevent this; it is surfaced
	// rather than silently picking a row.
	ErrAmbiguous = errors.New("ambiguous sample_id")
	// ErrContainerFull means placing the sample would exceed the container's
	// capacity.
	ErrContainerFull = errors.New("container full")
	// ErrValidation covers malformed service input, e.g. an empty id list.
	ErrValidation = errors.New("invalid input")
	// ErrConflict means a concurrent writer got there first; retrying the
	// request is expected to succeed.
	ErrConflict = errors.New("conflict")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
