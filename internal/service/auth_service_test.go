package service_test

import (
	"context"
	"errors"
	"testing"

	"medtracker/internal/model"
	"medtracker/internal/repository"
	"medtracker/internal/repository/mocks"
	"medtracker/internal/service"
	"medtracker/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Signup_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	mockUserRepo.On("Create", ctx, mock.MatchedBy(func(user *model.User) bool {
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "patient", user.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")))
		return true
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil).Once()

	user, err := authService.Signup(ctx, "alice", "pw", "patient")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateUsername).Once()

	_, err := authService.Signup(ctx, "alice", "pw", "patient")

	assert.ErrorIs(t, err, service.ErrUsernameTaken)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Signup_RepoError(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(errors.New("db down")).Once()

	_, err := authService.Signup(ctx, "alice", "pw", "patient")

	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrUsernameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	jwtUtil := utils.NewJWTUtil("secret", 360)
	authService := service.NewAuthService(mockUserRepo, jwtUtil)
	ctx := context.Background()

	hash, _ := utils.HashPassword("pw")
	mockUserRepo.On("FindByUsername", ctx, "alice").
		Return(&model.User{ID: 4, Username: "alice", PasswordHash: hash}, nil).Once()

	user, token, err := authService.Login(ctx, "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	hash, _ := utils.HashPassword("pw")
	mockUserRepo.On("FindByUsername", ctx, "alice").
		Return(&model.User{ID: 4, Username: "alice", PasswordHash: hash}, nil).Once()

	_, token, err := authService.Login(ctx, "alice", "nope")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "ghost").Return(nil, nil).Once()

	_, token, err := authService.Login(ctx, "ghost", "pw")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, utils.NewJWTUtil("secret", 1))
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "alice").Return(nil, errors.New("db down")).Once()

	_, _, err := authService.Login(ctx, "alice", "pw")

	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}
