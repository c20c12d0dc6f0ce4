package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

// TaxProfileModel is the persistence model for the TaxProfile entity.
// One row per organization.
type TaxProfileModel struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrganizationID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_tax_profiles_organization"`
	Regime           finance.TaxRegime `gorm:"type:varchar(20);not null"`
	ICMSBenefitFlag  bool              `gorm:"column:icms_benefit_flag;not null;default:false"`
	EffectiveTaxRate decimal.Decimal   `gorm:"type:decimal(6,3);not null"`
	CreatedAt        time.Time         `gorm:"not null"`
	UpdatedAt        time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxProfileModel) TableName() string {
	return "tax_profiles"
}

// ToDomain converts the persistence model to a domain TaxProfile.
func (m *TaxProfileModel) ToDomain() *finance.TaxProfile {
	return &finance.TaxProfile{
		ID:               m.ID,
		OrganizationID:   m.OrganizationID,
		Regime:           m.Regime,
		ICMSBenefitFlag:  m.ICMSBenefitFlag,
		EffectiveTaxRate: m.EffectiveTaxRate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TaxProfile.
func (m *TaxProfileModel) FromDomain(p *finance.TaxProfile) {
	m.ID = p.ID
	m.OrganizationID = p.OrganizationID
	m.Regime = p.Regime
	m.ICMSBenefitFlag = p.ICMSBenefitFlag
	m.EffectiveTaxRate = p.EffectiveTaxRate
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// TaxProfileModelFromDomain creates a new persistence model from a domain TaxProfile.
func TaxProfileModelFromDomain(p *finance.TaxProfile) *TaxProfileModel {
	m := &TaxProfileModel{}
	m.FromDomain(p)
	return m
}

// ProductCostModel is the persistence model for the ProductCost entity.
type ProductCostModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_costs_org_sku,priority:1"`
	SKU            string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_costs_org_sku,priority:2"`
	Description    string          `gorm:"type:varchar(255)"`
	GrossCost      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ICMSCredit     decimal.Decimal `gorm:"column:icms_credit;type:decimal(18,2);not null"`
	PISCredit      decimal.Decimal `gorm:"column:pis_credit;type:decimal(18,2);not null"`
	COFINSCredit   decimal.Decimal `gorm:"column:cofins_credit;type:decimal(18,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductCostModel) TableName() string {
	return "product_costs"
}

// ToDomain converts the persistence model to a domain ProductCost.
func (m *ProductCostModel) ToDomain() *finance.ProductCost {
	return &finance.ProductCost{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		SKU:            m.SKU,
		Description:    m.Description,
		GrossCost:      m.GrossCost,
		ICMSCredit:     m.ICMSCredit,
		PISCredit:      m.PISCredit,
		COFINSCredit:   m.COFINSCredit,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductCost.
func (m *ProductCostModel) FromDomain(c *finance.ProductCost) {
	m.ID = c.ID
	m.OrganizationID = c.OrganizationID
	m.SKU = c.SKU
	m.Description = c.Description
	m.GrossCost = c.GrossCost
	m.ICMSCredit = c.ICMSCredit
	m.PISCredit = c.PISCredit
	m.COFINSCredit = c.COFINSCredit
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ProductCostModelFromDomain creates a new persistence model from a domain ProductCost.
func ProductCostModelFromDomain(c *finance.ProductCost) *ProductCostModel {
	m := &ProductCostModel{}
	m.FromDomain(c)
	return m
}

// LogisticsRuleModel is the persistence model for the LogisticsCostRule entity.
// (organization, platform, shipping method) is unique.
type LogisticsRuleModel struct {
	ID             uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_logistics_rules_org_platform_method,priority:1"`
	Platform       integration.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_logistics_rules_org_platform_method,priority:2"`
	ShippingMethod string                   `gorm:"type:varchar(100);not null;uniqueIndex:idx_logistics_rules_org_platform_method,priority:3"`
	FixedCost      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	CreatedAt      time.Time                `gorm:"not null"`
	UpdatedAt      time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LogisticsRuleModel) TableName() string {
	return "logistics_cost_rules"
}

// ToDomain converts the persistence model to a domain LogisticsCostRule.
func (m *LogisticsRuleModel) ToDomain() *finance.LogisticsCostRule {
	return &finance.LogisticsCostRule{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Platform:       m.Platform,
		ShippingMethod: m.ShippingMethod,
		FixedCost:      m.FixedCost,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LogisticsCostRule.
func (m *LogisticsRuleModel) FromDomain(r *finance.LogisticsCostRule) {
	m.ID = r.ID
	m.OrganizationID = r.OrganizationID
	m.Platform = r.Platform
	m.ShippingMethod = r.ShippingMethod
	m.FixedCost = r.FixedCost
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// LogisticsRuleModelFromDomain creates a new persistence model from a domain LogisticsCostRule.
func LogisticsRuleModelFromDomain(r *finance.LogisticsCostRule) *LogisticsRuleModel {
	m := &LogisticsRuleModel{}
	m.FromDomain(r)
	return m
}

// SaleTransactionModel is the persistence model for the SaleTransaction
// entity. The unique index on (organization, platform, external ID) is what
// makes ingestion idempotent.
type SaleTransactionModel struct {
	ID                   uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrganizationID       uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_sale_transactions_org_platform_external,priority:1;index:idx_sale_transactions_org_date,priority:1"`
	Platform             integration.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_sale_transactions_org_platform_external,priority:2"`
	ExternalID           string                   `gorm:"type:varchar(100);not null;uniqueIndex:idx_sale_transactions_org_platform_external,priority:3"`
	GrossAmount          decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	SaleDate             time.Time                `gorm:"not null;index:idx_sale_transactions_org_date,priority:2"`
	ShippingMethod       string                   `gorm:"type:varchar(100)"`
	PlatformShippingCost decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	FixedCostOnly        bool                     `gorm:"not null;default:false"`
	NetMargin            *decimal.Decimal         `gorm:"type:decimal(18,2)"`
	CreatedAt            time.Time                `gorm:"not null"`
	UpdatedAt            time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleTransactionModel) TableName() string {
	return "sale_transactions"
}

// ToDomain converts the persistence model to a domain SaleTransaction.
func (m *SaleTransactionModel) ToDomain() *finance.SaleTransaction {
	return &finance.SaleTransaction{
		ID:                   m.ID,
		OrganizationID:       m.OrganizationID,
		Platform:             m.Platform,
		ExternalID:           m.ExternalID,
		GrossAmount:          m.GrossAmount,
		SaleDate:             m.SaleDate,
		ShippingMethod:       m.ShippingMethod,
		PlatformShippingCost: m.PlatformShippingCost,
		FixedCostOnly:        m.FixedCostOnly,
		NetMargin:            m.NetMargin,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleTransaction.
func (m *SaleTransactionModel) FromDomain(tx *finance.SaleTransaction) {
	m.ID = tx.ID
	m.OrganizationID = tx.OrganizationID
	m.Platform = tx.Platform
	m.ExternalID = tx.ExternalID
	m.GrossAmount = tx.GrossAmount
	m.SaleDate = tx.SaleDate
	m.ShippingMethod = tx.ShippingMethod
	m.PlatformShippingCost = tx.PlatformShippingCost
	m.FixedCostOnly = tx.FixedCostOnly
	m.NetMargin = tx.NetMargin
	m.CreatedAt = tx.CreatedAt
	m.UpdatedAt = tx.UpdatedAt
}

// SaleTransactionModelFromDomain creates a new persistence model from a domain SaleTransaction.
func SaleTransactionModelFromDomain(tx *finance.SaleTransaction) *SaleTransactionModel {
	m := &SaleTransactionModel{}
	m.FromDomain(tx)
	return m
}
