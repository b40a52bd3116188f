package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"ptbook/internal/domain/booking"
	"ptbook/internal/domain/entity"
	"ptbook/internal/domain/repository"
	"ptbook/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the transactional function immediately against a fixed
// factory. Commit/rollback semantics are covered by the real manager's own
// tests; here only the orchestration matters.
type fakeTxManager struct {
	factory repository.RepositoryFactory
	err     error
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.err != nil {
		return m.err
	}

	return fn(m.factory)
}

type fakeRepoFactory struct {
	userRepo  repository.UserRepository
	authRepo  repository.AuthRepository
	apptRepo  repository.AppointmentRepository
	batchRepo repository.PointBatchRepository
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository { return f.userRepo }
func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository { return f.authRepo }
func (f *fakeRepoFactory) NewAppointmentRepository() repository.AppointmentRepository {
	return f.apptRepo
}
func (f *fakeRepoFactory) NewPointBatchRepository() repository.PointBatchRepository {
	return f.batchRepo
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) FindActiveTrainers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockAuthRepo struct{ mock.Mock }

func (m *mockAuthRepo) CreateCredential(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *mockAuthRepo) FindCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthRepo) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *mockAuthRepo) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockAuthRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Find(ctx context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockAppointmentRepo) FindSweepCandidates(ctx context.Context, today, cutoff string) ([]*entity.Appointment, error) {
	args := m.Called(ctx, today, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Appointment), args.Error(1)
}

type mockPointBatchRepo struct{ mock.Mock }

func (m *mockPointBatchRepo) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*entity.PointBatch, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.PointBatch), args.Error(1)
}

func (m *mockPointBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.PointBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.PointBatch), args.Error(1)
}

func (m *mockPointBatchRepo) Create(ctx context.Context, batch *entity.PointBatch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *mockPointBatchRepo) UpdateRemaining(ctx context.Context, id uuid.UUID, remainingPoints int) error {
	return m.Called(ctx, id, remainingPoints).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) FindActive(ctx context.Context, trainerType entity.TrainerType) ([]*entity.Product, error) {
	args := m.Called(ctx, trainerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

type mockAppointmentLogRepo struct{ mock.Mock }

func (m *mockAppointmentLogRepo) Append(ctx context.Context, log *entity.AppointmentLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockAppointmentLogRepo) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*entity.AppointmentLog, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.AppointmentLog), args.Error(1)
}

func (m *mockAppointmentLogRepo) FindRecent(ctx context.Context, limit int) ([]*entity.AppointmentLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.AppointmentLog), args.Error(1)
}

type mockPasswordHasher struct{ mock.Mock }

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *mockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func (m *mockTokenService) HashToken(token string) string {
	return m.Called(token).String(0)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

type mockQRCodeService struct{ mock.Mock }

func (m *mockQRCodeService) GenerateCheckInQR(appointmentID uuid.UUID) ([]byte, error) {
	args := m.Called(appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockQRCodeService) ParseCheckInQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishAppointmentEvent(ctx context.Context, event *service.AppointmentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockSettlementExporter struct{ mock.Mock }

func (m *mockSettlementExporter) ExportCSV(ctx context.Context, month string, stats []*booking.TrainerStats) (string, error) {
	args := m.Called(ctx, month, stats)

	return args.String(0), args.Error(1)
}
