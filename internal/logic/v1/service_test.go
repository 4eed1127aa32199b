package v1

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/paging"
	"github.com/duynhne/contact-service/internal/core/validation"
	"github.com/duynhne/contact-service/internal/testutil"
)

func newTestService(t *testing.T) (*ContactService, domain.ContactRepository) {
	t.Helper()
	repo := testutil.NewContactRepository(t)
	return NewContactService(repo, validation.NewContactValidator(), nil), repo
}

func countAll(t *testing.T, repo domain.ContactRepository) int {
	t.Helper()
	total, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	return total
}

func intPtr(v int) *int { return &v }

func TestCreateContact(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, failures, err := svc.CreateContact(ctx, domain.ContactDto{
		Name:  "test test",
		Phone: "5555555555",
		Email: "test@host",
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.NotNil(t, created)
	require.NotNil(t, created.ContactID)
	assert.Positive(t, *created.ContactID)

	assert.Equal(t, 1, countAll(t, repo))
	stored, err := repo.Find(ctx, *created.ContactID)
	require.NoError(t, err)
	assert.Equal(t, "test test", stored.Name)
	assert.Equal(t, "5555555555", stored.Phone)
	assert.Equal(t, "test@host", stored.Email)
	assert.Nil(t, stored.Address)
}

func TestCreateContact_StoresBlankOptionalFieldsAsEmpty(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, failures, err := svc.CreateContact(ctx, domain.ContactDto{
		Name:  "Oscar",
		Email: "   ",
		Phone: "  ",
	})
	require.NoError(t, err)
	require.Empty(t, failures)

	stored, err := repo.Find(ctx, *created.ContactID)
	require.NoError(t, err)
	assert.Empty(t, stored.Email)
	assert.Empty(t, stored.Phone)
	assert.Empty(t, created.Email)
}

func TestCreateContact_IgnoresSuppliedIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	created, failures, err := svc.CreateContact(context.Background(), domain.ContactDto{
		ContactID: intPtr(50),
		Name:      "Big Bird",
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	assert.Equal(t, 1, *created.ContactID)
}

func TestCreateContact_InvalidEmailLeavesStoreEmpty(t *testing.T) {
	svc, repo := newTestService(t)

	created, failures, err := svc.CreateContact(context.Background(), domain.ContactDto{
		Name:  "test test",
		Phone: "5555555555",
		Email: "goodemail@",
	})
	require.NoError(t, err)
	assert.Nil(t, created)
	require.Len(t, failures, 1)
	assert.Equal(t, "Email is invalid.", failures[0].Message)
	assert.Zero(t, countAll(t, repo))
}

func TestCreateContact_ValidationNeverTouchesStorage(t *testing.T) {
	repo := new(mockRepository)
	svc := NewContactService(repo, nil, nil)

	_, failures, err := svc.CreateContact(context.Background(), domain.ContactDto{Name: " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name is required."}, failures.Messages())
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateContact_StorageFailure(t *testing.T) {
	storageErr := errors.New("connection refused")
	repo := new(mockRepository)
	repo.On("Add", mock.Anything, mock.Anything).Return(storageErr)
	svc := NewContactService(repo, nil, nil)

	created, failures, err := svc.CreateContact(context.Background(), domain.ContactDto{Name: "Big Bird"})
	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, created)
	assert.Empty(t, failures)
	repo.AssertExpectations(t)
}

func TestUpdateContact(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seeded := testutil.SeedContacts(t, repo, 2)

	updated, failures, err := svc.UpdateContact(ctx, domain.ContactDto{
		ContactID: intPtr(seeded[0].ContactID),
		Name:      "Big Bird",
		Email:     "big.bird@sesame.net",
		Address:   &domain.AddressDto{Line1: "123 Sesame St", State: "NY"},
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	assert.Equal(t, seeded[0].ContactID, *updated.ContactID)

	stored, err := repo.Find(ctx, seeded[0].ContactID)
	require.NoError(t, err)
	assert.Equal(t, &domain.Contact{
		ContactID: seeded[0].ContactID,
		Name:      "Big Bird",
		Email:     "big.bird@sesame.net",
		Address:   &domain.Address{Line1: "123 Sesame St", State: "NY"},
	}, stored)

	other, err := repo.Find(ctx, seeded[1].ContactID)
	require.NoError(t, err)
	assert.Equal(t, seeded[1], other)
}

func TestUpdateContact_MissingContactLeavesRowsUnchanged(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seeded := testutil.SeedContacts(t, repo, 3)

	updated, failures, err := svc.UpdateContact(ctx, domain.ContactDto{
		ContactID: intPtr(99),
		Name:      "Nobody",
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
	require.Len(t, failures, 1)
	assert.Equal(t, "ContactId", failures[0].Field)
	assert.Equal(t, "No Contact found with 99", failures[0].Message)
	assert.Equal(t, 99, failures[0].AttemptedValue)

	list, err := repo.List(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, seeded, list)
}

func TestUpdateContact_RequiresIdentity(t *testing.T) {
	repo := new(mockRepository)
	svc := NewContactService(repo, nil, nil)

	for _, id := range []*int{nil, intPtr(0)} {
		_, failures, err := svc.UpdateContact(context.Background(), domain.ContactDto{
			ContactID: id,
			Name:      "",
			Email:     "goodemail@",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ContactId is required.", "Name is required.", "Email is invalid."}, failures.Messages())
	}
	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateContact_InvalidFieldsSkipLookup(t *testing.T) {
	repo := new(mockRepository)
	svc := NewContactService(repo, nil, nil)

	_, failures, err := svc.UpdateContact(context.Background(), domain.ContactDto{
		ContactID: intPtr(1),
		Name:      "Big Bird",
		Phone:     "55aa5555bb5555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Phone is invalid.", failures.Join())
	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestUpdateContact_StorageFailure(t *testing.T) {
	storageErr := errors.New("deadlock detected")
	repo := new(mockRepository)
	repo.On("Find", mock.Anything, 1).Return(&domain.Contact{ContactID: 1, Name: "Big Bird"}, nil)
	repo.On("Update", mock.Anything, 1, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.ContactID == 1 && c.Name == "Kermit Frog"
	})).Return(storageErr)
	svc := NewContactService(repo, nil, nil)

	_, failures, err := svc.UpdateContact(context.Background(), domain.ContactDto{
		ContactID: intPtr(1),
		Name:      "Kermit Frog",
	})
	assert.ErrorIs(t, err, storageErr)
	assert.Empty(t, failures)
	repo.AssertExpectations(t)
}

func TestDeleteContact(t *testing.T) {
	tests := []struct {
		name   string
		seeded int
		want   int
	}{
		{name: "only row", seeded: 1, want: 0},
		{name: "one of two", seeded: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			testutil.SeedContacts(t, repo, tt.seeded)

			msg, err := svc.DeleteContact(context.Background(), 1)
			require.NoError(t, err)
			assert.Empty(t, msg)
			assert.Equal(t, tt.want, countAll(t, repo))
		})
	}
}

func TestDeleteContact_MissingIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	testutil.SeedContacts(t, repo, 2)

	first, err := svc.DeleteContact(ctx, 99)
	require.NoError(t, err)
	second, err := svc.DeleteContact(ctx, 99)
	require.NoError(t, err)

	assert.Equal(t, "Contact with 99 does not exist.", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, countAll(t, repo))
}

func TestDeleteContact_StorageFailure(t *testing.T) {
	storageErr := errors.New("disk I/O error")
	repo := new(mockRepository)
	repo.On("Remove", mock.Anything, 4).Return(storageErr)
	svc := NewContactService(repo, nil, nil)

	msg, err := svc.DeleteContact(context.Background(), 4)
	assert.ErrorIs(t, err, storageErr)
	assert.Empty(t, msg)
}

func TestSearchContacts_ByIdentity(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.SeedContacts(t, repo, 4)

	result, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{
		ContactID:  intPtr(2),
		Parameters: paging.Parameters{PageNumber: 1, PageSize: intPtr(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 2, *result.Data[0].ContactID)
}

func TestSearchContacts_CombinesCriteria(t *testing.T) {
	svc, repo := newTestService(t)
	seeded := testutil.SeedContacts(t, repo, 4)

	result, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{
		Name:  seeded[2].Name,
		Email: seeded[2].Email,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, seeded[2].ContactID, *result.Data[0].ContactID)

	result, err = svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{
		Name:        seeded[2].Name,
		PhoneNumber: seeded[1].Phone,
	})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Data)
}

func TestSearchContacts_Pages(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.SeedContacts(t, repo, 5)

	result, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{
		Parameters: paging.Parameters{PageNumber: 3, PageSize: intPtr(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 3, result.Page)
	assert.Equal(t, 2, result.PageSize)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 5, *result.Data[0].ContactID)

	all, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 5)
	assert.Equal(t, 1, all.TotalPages)
	assert.Equal(t, 5, all.PageSize)
	assert.Equal(t, 1, all.Page)
}

func TestSearchContacts_InvalidPageSizeNeverTouchesStorage(t *testing.T) {
	repo := new(mockRepository)
	svc := NewContactService(repo, nil, nil)

	_, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{
		Parameters: paging.Parameters{PageSize: intPtr(0)},
	})
	assert.ErrorIs(t, err, paging.ErrInvalidPageSize)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchContacts_StorageFailure(t *testing.T) {
	storageErr := errors.New("timeout")
	repo := new(mockRepository)
	repo.On("Count", mock.Anything, mock.Anything).Return(0, storageErr)
	svc := NewContactService(repo, nil, nil)

	_, err := svc.SearchContacts(context.Background(), domain.ContactSearchCriteria{})
	assert.ErrorIs(t, err, storageErr)
}

func TestSeedContacts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	inserted, err := svc.SeedContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = svc.SeedContacts(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Equal(t, 3, countAll(t, repo))

	result, err := svc.SearchContacts(ctx, domain.ContactSearchCriteria{Name: "Kermit Frog"})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 2, *result.Data[0].ContactID)
}
