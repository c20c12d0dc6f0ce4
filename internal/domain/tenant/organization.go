// Package tenant contains the Tenant bounded context: the Organization
// aggregate that owns every other record in the system. Organizations are
// identified commercially by their CNPJ (Brazilian company registry number).
package tenant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrganizationNotFound = errors.New("tenant: organization not found")
	ErrInvalidName          = errors.New("tenant: organization name is required")
	ErrInvalidCNPJ          = errors.New("tenant: CNPJ must have 14 digits")
	ErrDuplicateCNPJ        = errors.New("tenant: CNPJ already registered")
)

// Organization is the aggregate root of the tenant context. All finance and
// integration records hang off an organization ID.
type Organization struct {
	ID        uuid.UUID
	Name      string
	CNPJ      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrganization creates an organization, normalizing the CNPJ to bare digits
func NewOrganization(name, cnpj string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	normalized, err := NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Organization{
		ID:        uuid.New(),
		Name:      name,
		CNPJ:      normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update changes the organization's display name
func (o *Organization) Update(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	o.Name = name
	o.UpdatedAt = time.Now()
	return nil
}

// NormalizeCNPJ strips formatting punctuation and validates the digit count.
// Accepts both "12.345.678/0001-95" and "12345678000195".
func NormalizeCNPJ(cnpj string) (string, error) {
	var b strings.Builder
	for _, r := range cnpj {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '/' || r == '-' || r == ' ':
			// formatting characters are ignored
		default:
			return "", ErrInvalidCNPJ
		}
	}
	if b.Len() != 14 {
		return "", ErrInvalidCNPJ
	}
	return b.String(), nil
}

// Repository persists organizations
type Repository interface {
	// FindByID returns the organization, ErrOrganizationNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindByCNPJ looks an organization up by its normalized CNPJ
	FindByCNPJ(ctx context.Context, cnpj string) (*Organization, error)

	// FindAll returns every organization, ordered by creation time
	FindAll(ctx context.Context) ([]*Organization, error)

	// Save inserts or updates; insert returns ErrDuplicateCNPJ on CNPJ clash
	Save(ctx context.Context, org *Organization) error

	// Delete removes the organization and cascades to owned records
	Delete(ctx context.Context, id uuid.UUID) error
}
