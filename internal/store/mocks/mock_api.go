package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docfront/internal/model"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) List(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockAPI) Create(ctx context.Context, in model.DocumentInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockAPI) Update(ctx context.Context, id int64, in model.DocumentInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
