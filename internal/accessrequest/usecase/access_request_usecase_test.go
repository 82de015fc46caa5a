package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	"github.com/centrala/rainfall-gate/internal/accessrequest/usecase"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
	userDomain "github.com/centrala/rainfall-gate/internal/user/domain"
)

const adminEmail = "testadmin@centrala.com"

// memoryStore keeps requests and users behind one mutex. CompleteReview is a
// compare-and-swap on the pending status, like the SQL repositories.
type memoryStore struct {
	mu          sync.Mutex
	requests    map[uuid.UUID]domain.AccessRequest
	users       map[uuid.UUID]userDomain.User
	reviews     int
	credentials int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		requests: make(map[uuid.UUID]domain.AccessRequest),
		users:    make(map[uuid.UUID]userDomain.User),
	}
}

func (s *memoryStore) Create(_ context.Context, request *domain.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.ID] = *request
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &request, nil
}

func (s *memoryStore) CompleteReview(_ context.Context, request *domain.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.requests[request.ID]
	if !ok || stored.Status != domain.StatusPending {
		return domain.ErrRequestNotPending
	}
	s.requests[request.ID] = *request
	s.reviews++
	return nil
}

func (s *memoryStore) List(_ context.Context, offset, limit int) ([]*domain.AccessRequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]*domain.AccessRequestView, 0, len(s.requests))
	for _, request := range s.requests {
		views = append(views, &domain.AccessRequestView{
			AccessRequest: request,
			UserEmail:     s.users[request.UserID].Email,
		})
	}
	return views, nil
}

type memoryUsers struct {
	store *memoryStore
}

func (u memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	user, ok := u.store.users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return &user, nil
}

func (u memoryUsers) UpdateCredential(_ context.Context, id uuid.UUID, credential string) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	user, ok := u.store.users[id]
	if !ok {
		return userDomain.ErrUserNotFound
	}
	user.CurrentCredential = &credential
	u.store.users[id] = user
	u.store.credentials++
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	store   *memoryStore
	tokens  authService.TokenService
	useCase usecase.UseCase
	admin   authDomain.Identity
}

func newFixture(t *testing.T, opts ...authService.TokenOption) *fixture {
	t.Helper()
	tokens, err := authService.NewTokenService("workflow-test-secret", time.Hour, opts...)
	require.NoError(t, err)

	store := newMemoryStore()
	return &fixture{
		store:  store,
		tokens: tokens,
		useCase: usecase.NewAccessRequestUseCase(
			passthroughTx{},
			store,
			memoryUsers{store: store},
			tokens,
			authDomain.NewSingleAdminEmailRule(adminEmail),
		),
		admin: authDomain.Identity{Email: adminEmail, UserID: uuid.Must(uuid.NewV7()), IsAdmin: true},
	}
}

func (f *fixture) addUser(email string, credential *string) userDomain.User {
	user := userDomain.User{
		ID:                uuid.Must(uuid.NewV7()),
		Email:             email,
		PasswordSecret:    "hashed",
		CurrentCredential: credential,
		CreatedAt:         time.Now().UTC(),
	}
	f.store.users[user.ID] = user
	return user
}

func (f *fixture) addPending(userID uuid.UUID) domain.AccessRequest {
	request := domain.NewAccessRequest(userID, "regional rainfall study", time.Now())
	f.store.requests[request.ID] = *request
	return *request
}

func TestAccessRequestUseCase_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsCurrentCredential", func(t *testing.T) {
		f := newFixture(t)
		credential := "existing.credential.value"
		user := f.addUser("alice@example.com", &credential)

		output, err := f.useCase.Submit(ctx, authDomain.Identity{Email: user.Email, UserID: user.ID}, "  thesis data  ")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, output.Request.Status)
		assert.Equal(t, "thesis data", output.Request.Reason)
		require.NotNil(t, output.APIKey)
		assert.Equal(t, credential, *output.APIKey)
		assert.Len(t, f.store.requests, 1)
		assert.Zero(t, f.store.credentials)
	})

	t.Run("Success_EmptyReason", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser("alice@example.com", nil)

		output, err := f.useCase.Submit(ctx, authDomain.Identity{Email: user.Email, UserID: user.ID}, "")
		require.NoError(t, err)
		assert.Nil(t, output.APIKey)
	})

	t.Run("Error_UserMissing", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.useCase.Submit(ctx, authDomain.Identity{Email: "gone@example.com", UserID: uuid.Must(uuid.NewV7())}, "")
		assert.Nil(t, output)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, f.store.requests)
	})
}

func TestAccessRequestUseCase_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MintsVerifiableCredential", func(t *testing.T) {
		f := newFixture(t)
		old := "old.credential.value"
		user := f.addUser("alice@example.com", &old)
		pending := f.addPending(user.ID)

		output, err := f.useCase.Approve(ctx, pending.ID, f.admin, "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, output.Request.Status)
		assert.Equal(t, domain.DefaultApprovalNotes, *output.Request.AdminNotes)
		assert.Equal(t, f.admin.UserID, *output.Request.ReviewedBy)
		assert.NotNil(t, output.Request.ReviewedAt)

		stored := f.store.users[user.ID]
		require.NotNil(t, stored.CurrentCredential)
		assert.NotEqual(t, old, *stored.CurrentCredential)
		assert.Equal(t, output.Credential, *stored.CurrentCredential)

		identity, err := f.tokens.Verify(*stored.CurrentCredential)
		require.NoError(t, err)
		assert.Equal(t, authDomain.Claims{Email: user.Email, UserID: user.ID, IsAdmin: false}, identity.Claims())
	})

	t.Run("Success_ReplacesCredentialIssuedInSameSecond", func(t *testing.T) {
		now := time.Now()
		f := newFixture(t, authService.WithClock(func() time.Time { return now }))
		user := f.addUser("alice@example.com", nil)

		loginToken, err := f.tokens.Issue(user.Claims(false), 0)
		require.NoError(t, err)
		user.CurrentCredential = &loginToken
		f.store.users[user.ID] = user
		pending := f.addPending(user.ID)

		output, err := f.useCase.Approve(ctx, pending.ID, f.admin, "")
		require.NoError(t, err)
		assert.NotEqual(t, loginToken, output.Credential)
		assert.Equal(t, output.Credential, *f.store.users[user.ID].CurrentCredential)
	})

	t.Run("Success_ElevatedUserKeepsAdminClaim", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(adminEmail, nil)
		pending := f.addPending(user.ID)

		output, err := f.useCase.Approve(ctx, pending.ID, f.admin, "  welcome aboard ")
		require.NoError(t, err)
		assert.Equal(t, "welcome aboard", *output.Request.AdminNotes)

		identity, err := f.tokens.Verify(output.Credential)
		require.NoError(t, err)
		assert.True(t, identity.IsAdmin)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newFixture(t)

		output, err := f.useCase.Approve(ctx, uuid.Must(uuid.NewV7()), f.admin, "")
		assert.Nil(t, output)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_UserMissing", func(t *testing.T) {
		f := newFixture(t)
		pending := f.addPending(uuid.Must(uuid.NewV7()))

		output, err := f.useCase.Approve(ctx, pending.ID, f.admin, "")
		assert.Nil(t, output)
		assert.ErrorIs(t, err, domain.ErrRequestUserNotFound)
		assert.Equal(t, domain.StatusPending, f.store.requests[pending.ID].Status)
	})

	t.Run("Error_TerminalStateProducesNoWrites", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser("alice@example.com", nil)
		pending := f.addPending(user.ID)

		_, err := f.useCase.Approve(ctx, pending.ID, f.admin, "")
		require.NoError(t, err)
		reviews, credentials := f.store.reviews, f.store.credentials
		approvedCredential := *f.store.users[user.ID].CurrentCredential

		_, err = f.useCase.Approve(ctx, pending.ID, f.admin, "")
		assert.ErrorIs(t, err, domain.ErrRequestNotPending)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)

		_, err = f.useCase.Reject(ctx, pending.ID, f.admin, "too vague")
		assert.ErrorIs(t, err, domain.ErrRequestNotPending)

		assert.Equal(t, reviews, f.store.reviews)
		assert.Equal(t, credentials, f.store.credentials)
		assert.Equal(t, approvedCredential, *f.store.users[user.ID].CurrentCredential)
	})
}

func TestAccessRequestUseCase_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		old := "old.credential.value"
		user := f.addUser("alice@example.com", &old)
		pending := f.addPending(user.ID)

		request, err := f.useCase.Reject(ctx, pending.ID, f.admin, "too vague")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, request.Status)
		assert.Equal(t, "too vague", *request.AdminNotes)
		assert.Equal(t, f.admin.UserID, *request.ReviewedBy)
		assert.Equal(t, old, *f.store.users[user.ID].CurrentCredential)
		assert.Zero(t, f.store.credentials)
	})

	t.Run("Error_ReasonTooShort", func(t *testing.T) {
		for _, reason := range []string{"", "no", "   abc   "} {
			f := newFixture(t)
			user := f.addUser("alice@example.com", nil)
			pending := f.addPending(user.ID)

			request, err := f.useCase.Reject(ctx, pending.ID, f.admin, reason)
			assert.Nil(t, request)
			assert.ErrorIs(t, err, domain.ErrRejectionReasonTooShort)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Equal(t, domain.StatusPending, f.store.requests[pending.ID].Status)
		}
	})

	t.Run("Error_ValidationBeforeLookup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.useCase.Reject(ctx, uuid.Must(uuid.NewV7()), f.admin, "no")
		assert.ErrorIs(t, err, domain.ErrRejectionReasonTooShort)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.useCase.Reject(ctx, uuid.Must(uuid.NewV7()), f.admin, "too vague")
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestAccessRequestUseCase_ConcurrentReviews(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	for i := 0; i < 50; i++ {
		f := newFixture(t)
		old := "old.credential.value"
		user := f.addUser("alice@example.com", &old)
		pending := f.addPending(user.ID)

		var wg sync.WaitGroup
		var approveErr, rejectErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, approveErr = f.useCase.Approve(ctx, pending.ID, f.admin, "")
		}()
		go func() {
			defer wg.Done()
			_, rejectErr = f.useCase.Reject(ctx, pending.ID, f.admin, "too vague")
		}()
		wg.Wait()

		assert.Equal(t, 1, f.store.reviews, "exactly one terminal write")

		stored := f.store.requests[pending.ID]
		switch {
		case approveErr == nil:
			assert.ErrorIs(t, rejectErr, domain.ErrRequestNotPending)
			assert.Equal(t, domain.StatusApproved, stored.Status)
			assert.Equal(t, 1, f.store.credentials)
		case rejectErr == nil:
			assert.ErrorIs(t, approveErr, domain.ErrRequestNotPending)
			assert.Equal(t, domain.StatusRejected, stored.Status)
			assert.Zero(t, f.store.credentials)
			assert.Equal(t, old, *f.store.users[user.ID].CurrentCredential)
		default:
			t.Fatalf("both reviews failed: approve=%v reject=%v", approveErr, rejectErr)
		}
	}
}

func TestAccessRequestUseCase_ApproveTransactionFailure(t *testing.T) {
	f := newFixture(t)
	user := f.addUser("alice@example.com", nil)
	pending := f.addPending(user.ID)

	failing := usecase.NewAccessRequestUseCase(
		failingTx{err: errors.New("could not begin transaction")},
		f.store,
		memoryUsers{store: f.store},
		f.tokens,
		authDomain.NewSingleAdminEmailRule(adminEmail),
	)

	output, err := failing.Approve(context.Background(), pending.ID, f.admin, "")
	assert.Nil(t, output)
	assert.EqualError(t, err, "could not begin transaction")
	assert.Nil(t, f.store.users[user.ID].CurrentCredential)
}

type failingTx struct {
	err error
}

func (f failingTx) WithTx(context.Context, func(ctx context.Context) error) error {
	return f.err
}
