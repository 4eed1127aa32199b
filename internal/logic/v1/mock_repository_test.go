package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/duynhne/contact-service/internal/core/domain"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Add(ctx context.Context, contact *domain.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockRepository) Find(ctx context.Context, id int) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	contact, _ := args.Get(0).(*domain.Contact)
	return contact, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id int, contact *domain.Contact) error {
	return m.Called(ctx, id, contact).Error(0)
}

func (m *mockRepository) Remove(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) Count(ctx context.Context, filter domain.ContactFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter domain.ContactFilter, offset, limit int) ([]*domain.Contact, error) {
	args := m.Called(ctx, filter, offset, limit)
	contacts, _ := args.Get(0).([]*domain.Contact)
	return contacts, args.Error(1)
}
