package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "ptbook/internal/delivery/context"
	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/entity"
	domainerrors "ptbook/internal/domain/errors"
	"ptbook/internal/domain/repository"
	"ptbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// pointService implements the PointUsecase interface.
type pointService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	batchRepo   repository.PointBatchRepository
	logger      *slog.Logger
}

// PointServiceParams holds dependencies for PointService, injected by Fx.
type PointServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	BatchRepo   repository.PointBatchRepository
	Logger      *slog.Logger
}

// NewPointService is the constructor for pointService.
func NewPointService(params PointServiceParams) usecase.PointUsecase {
	return &pointService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		batchRepo:   params.BatchRepo,
		logger:      params.Logger,
	}
}

func (srv *pointService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns the purchasable catalog. Members only see products
// matching their assigned trainer's type; staff see everything.
func (srv *pointService) ListProducts(ctx context.Context, actor usecase.Actor) ([]*entity.Product, error) {
	var trainerType entity.TrainerType

	if actor.Role == entity.RoleMember {
		var err error
		trainerType, err = srv.memberTrainerType(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
	}

	products, err := srv.productRepo.FindActive(ctx, trainerType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// memberTrainerType resolves the trainer type a member's purchases are gated
// by, via their assigned trainer.
func (srv *pointService) memberTrainerType(ctx context.Context, memberID uuid.UUID) (entity.TrainerType, error) {
	member, err := srv.userRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", errors.Wrap(domainerrors.ErrUserNotFound, "member not found")
		}

		return "", errors.Wrap(err, "failed to load member")
	}
	if member.AssignedTrainerID == nil {
		return "", domainerrors.ErrValidationFailed.WrapMessage("member has no assigned trainer")
	}

	trainer, err := srv.userRepo.FindByID(ctx, *member.AssignedTrainerID)
	if err != nil {
		return "", errors.Wrap(err, "failed to load assigned trainer")
	}

	return trainer.TrainerType, nil
}

// Purchase validates product eligibility against the member's assigned
// trainer type and creates a new point batch with a six-month expiry.
func (srv *pointService) Purchase(ctx context.Context, input *usecase.PurchaseInput) (*entity.PointBatch, error) {
	memberID, err := resolveTargetMember(input.Actor, input.MemberID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Purchasing product", slog.Any("memberID", memberID), slog.Any("productID", input.ProductID))

	now := time.Now()
	var batch *entity.PointBatch

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		member, err := userRepo.FindByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "member not found")
			}

			return errors.Wrap(err, "failed to load member")
		}
		if member.Role != entity.RoleMember {
			return domainerrors.ErrValidationFailed.WrapMessage("points can only be purchased for members")
		}
		if member.AssignedTrainerID == nil {
			return domainerrors.ErrValidationFailed.WrapMessage("member has no assigned trainer")
		}

		trainer, err := userRepo.FindByID(ctx, *member.AssignedTrainerID)
		if err != nil {
			return errors.Wrap(err, "failed to load assigned trainer")
		}

		product, err := srv.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to load product")
		}
		if !product.IsActive {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product is inactive")
		}
		if product.TrainerType != trainer.TrainerType {
			return domainerrors.ErrProductNotEligible.WrapMessage("product is for a different trainer type")
		}

		productID := product.ID
		batch = &entity.PointBatch{
			ID:              uuid.New(),
			MemberID:        member.ID,
			ProductID:       &productID,
			DurationMinutes: product.DurationMinutes,
			OriginalPoints:  product.Points,
			RemainingPoints: product.Points,
			PurchaseDate:    now,
			ExpiryDate:      entity.NewExpiry(now),
		}

		return repoFactory.NewPointBatchRepository().Create(ctx, batch)
	})
	if err != nil {
		srv.log(ctx).Warn("Purchase failed", slog.Any("memberID", memberID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute purchase transaction")
	}

	srv.log(ctx).Debug("Point batch created",
		slog.Any("batchID", batch.ID),
		slog.Int("points", batch.OriginalPoints),
		slog.Int("duration", batch.DurationMinutes),
	)

	return batch, nil
}

// GetBalance returns the member's active point position per duration bucket.
// Members read their own; staff may read any member's.
func (srv *pointService) GetBalance(ctx context.Context, actor usecase.Actor, memberID uuid.UUID) (*usecase.BalanceOutput, error) {
	if actor.Role == entity.RoleMember {
		memberID = actor.UserID
	} else if memberID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("member id is required")
	}

	batches, err := srv.batchRepo.FindByMember(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load point batches")
	}

	now := time.Now()
	active := booking.ActiveBatches(batches, now)

	return &usecase.BalanceOutput{
		Balances: []usecase.BucketBalance{
			{DurationMinutes: entity.Duration30, Points: booking.BucketBalance(batches, entity.Duration30, now)},
			{DurationMinutes: entity.Duration60, Points: booking.BucketBalance(batches, entity.Duration60, now)},
		},
		Batches: active,
	}, nil
}

// CreateProduct adds a product to the catalog. Admin only.
func (srv *pointService) CreateProduct(ctx context.Context, actor usecase.Actor, product *entity.Product) (*entity.Product, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrAccessDenied.WrapMessage("only admins may create products")
	}

	if product.Name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("product name is required")
	}
	if !entity.IsValidDuration(product.DurationMinutes) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("duration must be 30 or 60 minutes")
	}
	if product.Points <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("points must be positive")
	}
	if !product.TrainerType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid trainer type")
	}

	product.ID = uuid.New()
	product.IsActive = true

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}
