package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOrderClient struct {
	mock.Mock
}

func (m *MockOrderClient) ConfirmPayment(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
