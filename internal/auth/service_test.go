package auth

import (
	"context"
	"errors"
	"testing"

	"bookshelf/internal/identity"
	"bookshelf/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.Session), args.Error(1)
}

func (m *mockProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Create(ctx context.Context, p user.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates identity then profile", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, "a@x.com", "p1").Return(&identity.User{ID: "u1", Email: "a@x.com"}, nil)
		profiles.On("Create", ctx, user.Profile{ID: "u1", Email: "a@x.com", Username: "a"}).Return(nil)

		u, err := NewService(provider, profiles).Register(ctx, "a@x.com", "p1", "a")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		provider.AssertExpectations(t)
		profiles.AssertExpectations(t)
	})

	t.Run("profile uses the stored email", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, " Ada@X.com", "p1").Return(&identity.User{ID: "u1", Email: "ada@x.com"}, nil)
		profiles.On("Create", ctx, user.Profile{ID: "u1", Email: "ada@x.com", Username: "a"}).Return(nil)

		_, err := NewService(provider, profiles).Register(ctx, " Ada@X.com", "p1", "a")
		require.NoError(t, err)
		profiles.AssertExpectations(t)
	})

	t.Run("profile falls back to the requested email", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, "a@x.com", "p1").Return(&identity.User{ID: "u1"}, nil)
		profiles.On("Create", ctx, user.Profile{ID: "u1", Email: "a@x.com", Username: "a"}).Return(nil)

		_, err := NewService(provider, profiles).Register(ctx, "a@x.com", "p1", "a")
		require.NoError(t, err)
		profiles.AssertExpectations(t)
	})

	t.Run("provider rejection skips profile", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, "a@x.com", "p1").Return(nil, errors.New("User already registered"))

		_, err := NewService(provider, profiles).Register(ctx, "a@x.com", "p1", "a")
		var providerErr *ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Equal(t, "User already registered", providerErr.Error())
		profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("no user returned", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, "a@x.com", "p1").Return(nil, nil)

		_, err := NewService(provider, profiles).Register(ctx, "a@x.com", "p1", "a")
		assert.ErrorIs(t, err, ErrNoUserReturned)
		profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("profile failure", func(t *testing.T) {
		provider, profiles := new(mockProvider), new(mockProfiles)
		provider.On("SignUp", ctx, "a@x.com", "p1").Return(&identity.User{ID: "u1"}, nil)
		profiles.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := NewService(provider, profiles).Register(ctx, "a@x.com", "p1", "a")
		var profileErr *ProfileError
		require.ErrorAs(t, err, &profileErr)
		assert.Equal(t, "insert failed", profileErr.Error())
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	provider := new(mockProvider)
	provider.On("SignIn", ctx, "a@x.com", "p1").Return(identity.Session{AccessToken: "at"}, nil)
	provider.On("SignIn", ctx, "a@x.com", "wrong").Return(identity.Session{}, errors.New("Invalid login credentials"))

	s := NewService(provider, new(mockProfiles))

	sess, err := s.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "at", sess.AccessToken)

	_, err = s.Login(ctx, "a@x.com", "wrong")
	var providerErr *ProviderError
	assert.ErrorAs(t, err, &providerErr)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	provider := new(mockProvider)
	provider.On("SignOut", ctx, "at").Return(nil)

	require.NoError(t, NewService(provider, new(mockProfiles)).Logout(ctx, "at"))
	provider.AssertExpectations(t)
}
