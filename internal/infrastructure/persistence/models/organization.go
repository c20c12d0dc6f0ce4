package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucreapp/backend/internal/domain/tenant"
)

// OrganizationModel is the persistence model for the Organization aggregate.
type OrganizationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CNPJ      string    `gorm:"type:varchar(14);not null;uniqueIndex:idx_organizations_cnpj"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization.
func (m *OrganizationModel) ToDomain() *tenant.Organization {
	return &tenant.Organization{
		ID:        m.ID,
		Name:      m.Name,
		CNPJ:      m.CNPJ,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Organization.
func (m *OrganizationModel) FromDomain(org *tenant.Organization) {
	m.ID = org.ID
	m.Name = org.Name
	m.CNPJ = org.CNPJ
	m.CreatedAt = org.CreatedAt
	m.UpdatedAt = org.UpdatedAt
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization.
func OrganizationModelFromDomain(org *tenant.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(org)
	return m
}
