package impl

import (
	"context"
	"testing"
	"time"

	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pointServiceFixtures holds all test dependencies for point service tests.
type pointServiceFixtures struct {
	service     usecase.PointUsecase
	userRepo    *mockUserRepo
	productRepo *mockProductRepo
	batchRepo   *mockPointBatchRepo
}

func createTestPointService(_ *testing.T) pointServiceFixtures {
	userRepo := &mockUserRepo{}
	productRepo := &mockProductRepo{}
	batchRepo := &mockPointBatchRepo{}

	txManager := &fakeTxManager{factory: &fakeRepoFactory{
		userRepo:  userRepo,
		batchRepo: batchRepo,
	}}

	svc := NewPointService(PointServiceParams{
		TxManager:   txManager,
		UserRepo:    userRepo,
		ProductRepo: productRepo,
		BatchRepo:   batchRepo,
		Logger:      newDiscardLogger(),
	})

	return pointServiceFixtures{
		service:     svc,
		userRepo:    userRepo,
		productRepo: productRepo,
		batchRepo:   batchRepo,
	}
}

func standardProduct() *entity.Product {
	return &entity.Product{
		ID:              uuid.New(),
		Name:            "60 min x 10 sessions",
		DurationMinutes: entity.Duration60,
		Points:          10,
		Price:           18000,
		TrainerType:     entity.TrainerTypeStandard,
		IsActive:        true,
	}
}

func TestPointService_ListProducts_MemberFilteredByTrainerType(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	memberID := uuid.New()
	member := testMember(memberID)
	trainer := activeTrainer(*member.AssignedTrainerID)

	fx.userRepo.On("FindByID", ctx, memberID).Return(member, nil)
	fx.userRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
	fx.productRepo.On("FindActive", ctx, entity.TrainerTypeStandard).
		Return([]*entity.Product{standardProduct()}, nil)

	products, err := fx.service.ListProducts(ctx, usecase.Actor{UserID: memberID, Role: entity.RoleMember})

	require.NoError(t, err)
	assert.Len(t, products, 1)
	fx.productRepo.AssertExpectations(t)
}

func TestPointService_ListProducts_AdminSeesAll(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	fx.productRepo.On("FindActive", ctx, entity.TrainerType("")).
		Return([]*entity.Product{standardProduct(), standardProduct()}, nil)

	products, err := fx.service.ListProducts(ctx, usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin})

	require.NoError(t, err)
	assert.Len(t, products, 2)
	fx.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPointService_Purchase_Success(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	memberID := uuid.New()
	member := testMember(memberID)
	trainer := activeTrainer(*member.AssignedTrainerID)
	product := standardProduct()

	fx.userRepo.On("FindByID", ctx, memberID).Return(member, nil)
	fx.userRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.batchRepo.On("Create", ctx, mock.AnythingOfType("*entity.PointBatch")).Return(nil)

	batch, err := fx.service.Purchase(ctx, &usecase.PurchaseInput{
		Actor:     usecase.Actor{UserID: memberID, Role: entity.RoleMember},
		ProductID: product.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, memberID, batch.MemberID)
	assert.Equal(t, product.Points, batch.OriginalPoints)
	assert.Equal(t, product.Points, batch.RemainingPoints)
	assert.Equal(t, product.DurationMinutes, batch.DurationMinutes)
	require.NotNil(t, batch.ProductID)
	assert.Equal(t, product.ID, *batch.ProductID)

	// Expiry is purchase + 6 calendar months.
	expected := batch.PurchaseDate.AddDate(0, 6, 0)
	assert.WithinDuration(t, expected, batch.ExpiryDate, time.Second)
}

func TestPointService_Purchase_WrongTrainerType(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	memberID := uuid.New()
	member := testMember(memberID)
	trainer := activeTrainer(*member.AssignedTrainerID)

	headProduct := standardProduct()
	headProduct.TrainerType = entity.TrainerTypeHead

	fx.userRepo.On("FindByID", ctx, memberID).Return(member, nil)
	fx.userRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
	fx.productRepo.On("FindByID", ctx, headProduct.ID).Return(headProduct, nil)

	batch, err := fx.service.Purchase(ctx, &usecase.PurchaseInput{
		Actor:     usecase.Actor{UserID: memberID, Role: entity.RoleMember},
		ProductID: headProduct.ID,
	})

	require.Error(t, err)
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotEligible)
	fx.batchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPointService_Purchase_InactiveProduct(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	memberID := uuid.New()
	member := testMember(memberID)
	trainer := activeTrainer(*member.AssignedTrainerID)

	retired := standardProduct()
	retired.IsActive = false

	fx.userRepo.On("FindByID", ctx, memberID).Return(member, nil)
	fx.userRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
	fx.productRepo.On("FindByID", ctx, retired.ID).Return(retired, nil)

	_, err := fx.service.Purchase(ctx, &usecase.PurchaseInput{
		Actor:     usecase.Actor{UserID: memberID, Role: entity.RoleMember},
		ProductID: retired.ID,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestPointService_Purchase_TrainerDenied(t *testing.T) {
	fx := createTestPointService(t)

	_, err := fx.service.Purchase(context.Background(), &usecase.PurchaseInput{
		Actor:     usecase.Actor{UserID: uuid.New(), Role: entity.RoleTrainer},
		MemberID:  uuid.New(),
		ProductID: uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestPointService_GetBalance_BucketsAreSeparate(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	memberID := uuid.New()

	short := usableBatch(memberID, entity.Duration30, 3)
	long := usableBatch(memberID, entity.Duration60, 5)
	expired := usableBatch(memberID, entity.Duration60, 7)
	expired.ExpiryDate = time.Now().AddDate(0, 0, -1)

	fx.batchRepo.On("FindByMember", ctx, memberID).
		Return([]*entity.PointBatch{short, long, expired}, nil)

	output, err := fx.service.GetBalance(ctx, usecase.Actor{UserID: memberID, Role: entity.RoleMember}, uuid.Nil)

	require.NoError(t, err)
	require.Len(t, output.Balances, 2)
	assert.Equal(t, entity.Duration30, output.Balances[0].DurationMinutes)
	assert.Equal(t, 3, output.Balances[0].Points)
	assert.Equal(t, entity.Duration60, output.Balances[1].DurationMinutes)
	assert.Equal(t, 5, output.Balances[1].Points)
	// The expired batch contributes nothing and is not listed.
	assert.Len(t, output.Batches, 2)
}

func TestPointService_CreateProduct_AdminOnly(t *testing.T) {
	fx := createTestPointService(t)

	_, err := fx.service.CreateProduct(context.Background(),
		usecase.Actor{UserID: uuid.New(), Role: entity.RoleTrainer}, standardProduct())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestPointService_CreateProduct_ValidatesDuration(t *testing.T) {
	fx := createTestPointService(t)

	product := standardProduct()
	product.DurationMinutes = 45

	_, err := fx.service.CreateProduct(context.Background(),
		usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, product)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestPointService_CreateProduct_Success(t *testing.T) {
	fx := createTestPointService(t)

	ctx := context.Background()
	product := &entity.Product{
		Name:            "30 min x 5 sessions",
		DurationMinutes: entity.Duration30,
		Points:          5,
		Price:           5000,
		TrainerType:     entity.TrainerTypeStandard,
	}

	fx.productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	created, err := fx.service.CreateProduct(ctx, usecase.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, product)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)
}
