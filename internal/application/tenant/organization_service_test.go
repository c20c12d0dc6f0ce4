package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/tenant"
)

// MockOrganizationRepository is a mock implementation of tenant.Repository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByCNPJ(ctx context.Context, cnpj string) (*tenant.Organization, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context) ([]*tenant.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *tenant.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestOrganizationService_Create_NormalizesCNPJ(t *testing.T) {
	orgRepo := new(MockOrganizationRepository)
	orgRepo.On("Save", mock.Anything, mock.AnythingOfType("*tenant.Organization")).Return(nil)

	service := NewOrganizationService(orgRepo, zap.NewNop())

	org, err := service.Create(context.Background(), "Loja Exemplo", "12.345.678/0001-95")

	require.NoError(t, err)
	assert.Equal(t, "12345678000195", org.CNPJ)
	orgRepo.AssertExpectations(t)
}

func TestOrganizationService_Create_RejectsInvalidCNPJ(t *testing.T) {
	orgRepo := new(MockOrganizationRepository)
	service := NewOrganizationService(orgRepo, zap.NewNop())

	_, err := service.Create(context.Background(), "Loja Exemplo", "11.111.111/1111-11")

	assert.ErrorIs(t, err, tenant.ErrInvalidCNPJ)
	orgRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrganizationService_Create_PropagatesDuplicateCNPJ(t *testing.T) {
	orgRepo := new(MockOrganizationRepository)
	orgRepo.On("Save", mock.Anything, mock.Anything).Return(tenant.ErrDuplicateCNPJ)

	service := NewOrganizationService(orgRepo, zap.NewNop())

	_, err := service.Create(context.Background(), "Loja Exemplo", "12.345.678/0001-95")

	assert.ErrorIs(t, err, tenant.ErrDuplicateCNPJ)
}

func TestOrganizationService_Update_RenamesOnly(t *testing.T) {
	org, err := tenant.NewOrganization("Loja Antiga", "12.345.678/0001-95")
	require.NoError(t, err)

	orgRepo := new(MockOrganizationRepository)
	orgRepo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
	orgRepo.On("Save", mock.Anything, org).Return(nil)

	service := NewOrganizationService(orgRepo, zap.NewNop())

	updated, err := service.Update(context.Background(), org.ID, "Loja Nova")

	require.NoError(t, err)
	assert.Equal(t, "Loja Nova", updated.Name)
	assert.Equal(t, "12345678000195", updated.CNPJ)
}

func TestOrganizationService_Delete_ChecksExistenceFirst(t *testing.T) {
	id := uuid.New()
	orgRepo := new(MockOrganizationRepository)
	orgRepo.On("FindByID", mock.Anything, id).Return(nil, tenant.ErrOrganizationNotFound)

	service := NewOrganizationService(orgRepo, zap.NewNop())

	err := service.Delete(context.Background(), id)

	assert.ErrorIs(t, err, tenant.ErrOrganizationNotFound)
	orgRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
