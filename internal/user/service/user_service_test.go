package service

import (
	"context"
	"errors"
	"testing"

	"github.com/danuarta/shop-microservices/internal/user/domain"
	"github.com/danuarta/shop-microservices/internal/user/repository"
	"github.com/danuarta/shop-microservices/internal/user/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	mockRepo := new(mocks.MockUserRepository)
	userServiceInstance := NewUserService(mockRepo)

	ctx := context.TODO()
	registerReq := domain.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
	}

	t.Run("Successful registration", func(t *testing.T) {
		// AnythingOfType karena hash password berbeda setiap kali
		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

		user, err := userServiceInstance.Register(ctx, registerReq)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, registerReq.Email, user.Email)
		assert.NotEmpty(t, user.ID)
		assert.Empty(t, user.PasswordHash)
		mockRepo.AssertExpectations(t)
	})

	t.Run("User already exists", func(t *testing.T) {
		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrUserConflict).Once()

		user, err := userServiceInstance.Register(ctx, registerReq)

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.EqualError(t, err, ErrUserAlreadyExists.Error())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error on CreateUser", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(expectedErr).Once()

		user, err := userServiceInstance.Register(ctx, registerReq)

		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "could not save user")
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	mockRepo := new(mocks.MockUserRepository)
	userServiceInstance := NewUserService(mockRepo)
	ctx := context.TODO()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockUser := &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	loginReq := domain.LoginRequest{
		Identifier: "test@example.com",
		Password:   "password123",
	}

	t.Run("Successful login", func(t *testing.T) {
		mockRepo.On("GetUserByIdentifier", ctx, loginReq.Identifier).Return(mockUser, nil).Once()

		resp, err := userServiceInstance.Login(ctx, loginReq)

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, mockUser.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("User not found", func(t *testing.T) {
		mockRepo.On("GetUserByIdentifier", ctx, loginReq.Identifier).Return(nil, repository.ErrUserNotFound).Once()

		resp, err := userServiceInstance.Login(ctx, loginReq)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.EqualError(t, err, ErrInvalidCredentials.Error())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Incorrect password", func(t *testing.T) {
		mockRepo.On("GetUserByIdentifier", ctx, loginReq.Identifier).Return(mockUser, nil).Once()

		reqWithWrongPass := domain.LoginRequest{
			Identifier: "test@example.com",
			Password:   "wrongpassword",
		}
		resp, err := userServiceInstance.Login(ctx, reqWithWrongPass)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.EqualError(t, err, ErrInvalidCredentials.Error())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error on GetUserByIdentifier", func(t *testing.T) {
		// Error repo apa pun selain not-found tetap dibalas invalid credentials
		mockRepo.On("GetUserByIdentifier", ctx, loginReq.Identifier).Return(nil, errors.New("some db error")).Once()

		resp, err := userServiceInstance.Login(ctx, loginReq)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.EqualError(t, err, ErrInvalidCredentials.Error())
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_TokenRoundTrip(t *testing.T) {
	mockRepo := new(mocks.MockUserRepository)
	userServiceInstance := NewUserService(mockRepo)
	ctx := context.TODO()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockUser := &domain.User{
		ID:           "user-789",
		Email:        "roundtrip@example.com",
		PasswordHash: string(hashedPassword),
	}

	mockRepo.On("GetUserByIdentifier", ctx, "roundtrip@example.com").Return(mockUser, nil).Once()

	resp, err := userServiceInstance.Login(ctx, domain.LoginRequest{
		Identifier: "roundtrip@example.com",
		Password:   "password123",
	})
	assert.NoError(t, err)

	userID, err := ParseToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, "user-789", userID)

	_, err = ParseToken("definitely-not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_GetProfile(t *testing.T) {
	mockRepo := new(mocks.MockUserRepository)
	userServiceInstance := NewUserService(mockRepo)
	ctx := context.TODO()

	t.Run("Found", func(t *testing.T) {
		mockRepo.On("GetUserByID", ctx, "user-42").Return(&domain.User{ID: "user-42", Email: "a@b.c", PasswordHash: "hash"}, nil).Once()

		user, err := userServiceInstance.GetProfile(ctx, "user-42")
		assert.NoError(t, err)
		assert.Equal(t, "user-42", user.ID)
		assert.Empty(t, user.PasswordHash)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo.On("GetUserByID", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

		user, err := userServiceInstance.GetProfile(ctx, "ghost")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}
