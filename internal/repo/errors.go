package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"go-gin-gorm-crm/internal/domain"
)

// translate maps driver constraint errors onto domain.ErrDuplicateKey and
// domain.ErrForeignKey; everything else is returned wrapped with op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isDupKey(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateKey)
	case isForeignKey(err):
		return fmt.Errorf("%s: %w", op, domain.ErrForeignKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique violation")
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
