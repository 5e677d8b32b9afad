package stegx

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PasswordSourceMock is a testify mock of PasswordSource.
type PasswordSourceMock struct {
	mock.Mock
}

func (m *PasswordSourceMock) GetPassword(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// RandomGeneratorMock is a testify mock of RandomGenerator.
type RandomGeneratorMock struct {
	mock.Mock
}

func (m *RandomGeneratorMock) Generate(n int) ([]byte, error) {
	args := m.Called(n)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
