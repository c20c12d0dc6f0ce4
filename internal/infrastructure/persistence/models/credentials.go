package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucreapp/backend/internal/domain/integration"
)

// CredentialSetModel is the persistence model for the CredentialSet entity.
// One row per organization, both platforms flattened onto it.
type CredentialSetModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_platform_credentials_organization"`

	MLClientID       string     `gorm:"column:ml_client_id;type:varchar(100)"`
	MLClientSecret   string     `gorm:"column:ml_client_secret;type:varchar(255)"`
	MLAccessToken    string     `gorm:"column:ml_access_token;type:text"`
	MLRefreshToken   string     `gorm:"column:ml_refresh_token;type:text"`
	MLTokenExpiresAt *time.Time `gorm:"column:ml_token_expires_at"`

	ShopeePartnerID      int64      `gorm:"column:shopee_partner_id;not null;default:0"`
	ShopeePartnerKey     string     `gorm:"column:shopee_partner_key;type:varchar(255)"`
	ShopeeShopID         int64      `gorm:"column:shopee_shop_id;not null;default:0"`
	ShopeeAccessToken    string     `gorm:"column:shopee_access_token;type:text"`
	ShopeeRefreshToken   string     `gorm:"column:shopee_refresh_token;type:text"`
	ShopeeTokenExpiresAt *time.Time `gorm:"column:shopee_token_expires_at"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CredentialSetModel) TableName() string {
	return "platform_credentials"
}

// ToDomain converts the persistence model to a domain CredentialSet.
func (m *CredentialSetModel) ToDomain() *integration.CredentialSet {
	creds := &integration.CredentialSet{
		ID:               m.ID,
		OrganizationID:   m.OrganizationID,
		MLClientID:       m.MLClientID,
		MLClientSecret:   m.MLClientSecret,
		ShopeePartnerID:  m.ShopeePartnerID,
		ShopeePartnerKey: m.ShopeePartnerKey,
		ShopeeShopID:     m.ShopeeShopID,
		ML: integration.TokenPair{
			AccessToken:  m.MLAccessToken,
			RefreshToken: m.MLRefreshToken,
		},
		Shopee: integration.TokenPair{
			AccessToken:  m.ShopeeAccessToken,
			RefreshToken: m.ShopeeRefreshToken,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.MLTokenExpiresAt != nil {
		creds.ML.ExpiresAt = *m.MLTokenExpiresAt
	}
	if m.ShopeeTokenExpiresAt != nil {
		creds.Shopee.ExpiresAt = *m.ShopeeTokenExpiresAt
	}
	return creds
}

// FromDomain populates the persistence model from a domain CredentialSet.
func (m *CredentialSetModel) FromDomain(c *integration.CredentialSet) {
	m.ID = c.ID
	m.OrganizationID = c.OrganizationID
	m.MLClientID = c.MLClientID
	m.MLClientSecret = c.MLClientSecret
	m.MLAccessToken = c.ML.AccessToken
	m.MLRefreshToken = c.ML.RefreshToken
	m.MLTokenExpiresAt = timePtr(c.ML.ExpiresAt)
	m.ShopeePartnerID = c.ShopeePartnerID
	m.ShopeePartnerKey = c.ShopeePartnerKey
	m.ShopeeShopID = c.ShopeeShopID
	m.ShopeeAccessToken = c.Shopee.AccessToken
	m.ShopeeRefreshToken = c.Shopee.RefreshToken
	m.ShopeeTokenExpiresAt = timePtr(c.Shopee.ExpiresAt)
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CredentialSetModelFromDomain creates a new persistence model from a domain CredentialSet.
func CredentialSetModelFromDomain(c *integration.CredentialSet) *CredentialSetModel {
	m := &CredentialSetModel{}
	m.FromDomain(c)
	return m
}

// timePtr maps a zero time to NULL
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// IntegrationErrorModel is the persistence model for the append-only
// integration error log.
type IntegrationErrorModel struct {
	ID             uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID                `gorm:"type:uuid;not null;index:idx_integration_errors_org_created,priority:1"`
	Platform       integration.PlatformCode `gorm:"type:varchar(20);not null"`
	Task           string                   `gorm:"type:varchar(50);not null"`
	Message        string                   `gorm:"type:text;not null"`
	CreatedAt      time.Time                `gorm:"not null;index:idx_integration_errors_org_created,priority:2"`
}

// TableName returns the table name for GORM
func (IntegrationErrorModel) TableName() string {
	return "integration_errors"
}

// ToDomain converts the persistence model to a domain ErrorLogEntry.
func (m *IntegrationErrorModel) ToDomain() *integration.ErrorLogEntry {
	return &integration.ErrorLogEntry{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Platform:       m.Platform,
		Task:           m.Task,
		Message:        m.Message,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ErrorLogEntry.
func (m *IntegrationErrorModel) FromDomain(e *integration.ErrorLogEntry) {
	m.ID = e.ID
	m.OrganizationID = e.OrganizationID
	m.Platform = e.Platform
	m.Task = e.Task
	m.Message = e.Message
	m.CreatedAt = e.CreatedAt
}

// IntegrationErrorModelFromDomain creates a new persistence model from a domain ErrorLogEntry.
func IntegrationErrorModelFromDomain(e *integration.ErrorLogEntry) *IntegrationErrorModel {
	m := &IntegrationErrorModel{}
	m.FromDomain(e)
	return m
}
