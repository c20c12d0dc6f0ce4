package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCost records what a SKU costs the seller: the gross purchase cost
// and the recoverable input tax credits (ICMS, PIS, COFINS). The effective
// cost of goods is the gross cost net of those credits.
type ProductCost struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	SKU            string
	Description    string
	GrossCost      decimal.Decimal
	ICMSCredit     decimal.Decimal
	PISCredit      decimal.Decimal
	COFINSCredit   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProductCost creates a validated product cost entry
func NewProductCost(organizationID uuid.UUID, sku, description string, gross, icms, pis, cofins decimal.Decimal) (*ProductCost, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrInvalidSKU
	}
	if err := validateCosts(gross, icms, pis, cofins); err != nil {
		return nil, err
	}

	now := time.Now()
	return &ProductCost{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		SKU:            sku,
		Description:    description,
		GrossCost:      gross,
		ICMSCredit:     icms,
		PISCredit:      pis,
		COFINSCredit:   cofins,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Update replaces the cost figures, keeping the SKU stable
func (c *ProductCost) Update(description string, gross, icms, pis, cofins decimal.Decimal) error {
	if err := validateCosts(gross, icms, pis, cofins); err != nil {
		return err
	}
	c.Description = description
	c.GrossCost = gross
	c.ICMSCredit = icms
	c.PISCredit = pis
	c.COFINSCredit = cofins
	c.UpdatedAt = time.Now()
	return nil
}

// TotalCredits returns the sum of the recoverable input credits
func (c *ProductCost) TotalCredits() decimal.Decimal {
	return c.ICMSCredit.Add(c.PISCredit).Add(c.COFINSCredit)
}

// NetCost is the gross cost minus recoverable credits, rounded to cents
func (c *ProductCost) NetCost() decimal.Decimal {
	return c.GrossCost.Sub(c.TotalCredits()).Round(2)
}

func validateCosts(gross, icms, pis, cofins decimal.Decimal) error {
	if gross.IsNegative() || icms.IsNegative() || pis.IsNegative() || cofins.IsNegative() {
		return ErrNegativeCost
	}
	if icms.Add(pis).Add(cofins).GreaterThan(gross) {
		return ErrCreditsExceedGross
	}
	return nil
}

// ProductCostRepository persists product costs, unique per (organization, SKU)
type ProductCostRepository interface {
	// FindByID returns the entry, ErrProductCostNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*ProductCost, error)

	// FindBySKU looks up the entry for an organization's SKU
	FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*ProductCost, error)

	// FindByOrganization lists an organization's product costs ordered by SKU
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*ProductCost, error)

	// Save inserts or updates; insert returns ErrDuplicateSKU on (org, SKU) clash
	Save(ctx context.Context, cost *ProductCost) error

	// Delete removes the entry
	Delete(ctx context.Context, id uuid.UUID) error
}
