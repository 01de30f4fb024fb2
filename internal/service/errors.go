package service

import (
	"errors"

	"go-gin-gorm-crm/internal/domain"
)

// emailTaken maps a unique-index violation on create/update to a Conflict on email.
func emailTaken(entity string, err error) error {
	if errors.Is(err, domain.ErrDuplicateKey) {
		return domain.Conflict(entity, "email")
	}
	return err
}

// missingCustomer maps a foreign key violation to NotFound(customer); it happens when
// the customer is deleted between the existence check and the insert.
func missingCustomer(err error) error {
	if errors.Is(err, domain.ErrForeignKey) {
		return domain.NotFound("customer")
	}
	return err
}
