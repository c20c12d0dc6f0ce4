package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucreapp/backend/internal/domain/finance"
)

func testCostInput() ProductCostInput {
	return ProductCostInput{
		SKU:          "SKU-001",
		Description:  "Wireless headset",
		GrossCost:    decimal.RequireFromString("80.00"),
		ICMSCredit:   decimal.RequireFromString("9.60"),
		PISCredit:    decimal.RequireFromString("1.32"),
		COFINSCredit: decimal.RequireFromString("6.08"),
	}
}

func TestProductCostService_Create_Success(t *testing.T) {
	orgID := uuid.New()
	costRepo := new(MockProductCostRepository)
	costRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.ProductCost")).Return(nil)

	service := NewProductCostService(costRepo)

	cost, err := service.Create(context.Background(), orgID, testCostInput())

	require.NoError(t, err)
	assert.Equal(t, "SKU-001", cost.SKU)
	assert.True(t, cost.NetCost().Equal(decimal.RequireFromString("63.00")), "got %s", cost.NetCost())
	costRepo.AssertExpectations(t)
}

func TestProductCostService_Create_RejectsCreditsAboveGross(t *testing.T) {
	costRepo := new(MockProductCostRepository)
	service := NewProductCostService(costRepo)

	input := testCostInput()
	input.ICMSCredit = decimal.RequireFromString("90.00")

	_, err := service.Create(context.Background(), uuid.New(), input)

	assert.ErrorIs(t, err, finance.ErrCreditsExceedGross)
	costRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductCostService_Create_PropagatesDuplicateSKU(t *testing.T) {
	costRepo := new(MockProductCostRepository)
	costRepo.On("Save", mock.Anything, mock.Anything).Return(finance.ErrDuplicateSKU)

	service := NewProductCostService(costRepo)

	_, err := service.Create(context.Background(), uuid.New(), testCostInput())

	assert.ErrorIs(t, err, finance.ErrDuplicateSKU)
}

func TestProductCostService_Update_KeepsSKUStable(t *testing.T) {
	orgID := uuid.New()
	existing, err := finance.NewProductCost(orgID, "SKU-001", "Old description",
		decimal.RequireFromString("50.00"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	costRepo := new(MockProductCostRepository)
	costRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	costRepo.On("Save", mock.Anything, existing).Return(nil)

	service := NewProductCostService(costRepo)

	updated, err := service.Update(context.Background(), orgID, existing.ID, testCostInput())

	require.NoError(t, err)
	assert.Equal(t, "SKU-001", updated.SKU)
	assert.Equal(t, "Wireless headset", updated.Description)
	assert.True(t, updated.GrossCost.Equal(decimal.RequireFromString("80.00")))
}

func TestProductCostService_Get_RejectsForeignEntry(t *testing.T) {
	existing, err := finance.NewProductCost(uuid.New(), "SKU-001", "",
		decimal.RequireFromString("50.00"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	costRepo := new(MockProductCostRepository)
	costRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

	service := NewProductCostService(costRepo)

	_, err = service.Get(context.Background(), uuid.New(), existing.ID)

	assert.ErrorIs(t, err, finance.ErrProductCostNotFound)
}

func TestProductCostService_Delete_ScopedToOrganization(t *testing.T) {
	orgID := uuid.New()
	existing, err := finance.NewProductCost(orgID, "SKU-001", "",
		decimal.RequireFromString("50.00"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	costRepo := new(MockProductCostRepository)
	costRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	costRepo.On("Delete", mock.Anything, existing.ID).Return(nil)

	service := NewProductCostService(costRepo)

	require.NoError(t, service.Delete(context.Background(), orgID, existing.ID))
	costRepo.AssertExpectations(t)
}
