package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/contact-service/internal/core/paging"
	logicv1 "github.com/duynhne/contact-service/internal/logic/v1"
	"github.com/duynhne/contact-service/internal/testutil"
	webv1 "github.com/duynhne/contact-service/internal/web/v1"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	defaultPageSize := 10
	service := logicv1.NewContactService(testutil.NewContactRepository(t), nil, nil)
	r := gin.New()
	webv1.RegisterRoutes(r, webv1.NewContactHandler(service, &defaultPageSize), webv1.NewHealthHandler(nil))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestContactClient_Lifecycle(t *testing.T) {
	c := NewContactClient(newServer(t).URL)
	ctx := context.Background()

	created, err := c.CreateContact(ctx, Contact{
		Name:    "Big Bird",
		Email:   "big.bird@sesame.net",
		Phone:   "9876543210",
		Address: &Address{Line1: "123 Sesame St", State: "NY"},
	})
	require.NoError(t, err)
	require.NotNil(t, created.ContactID)
	id := *created.ContactID

	created.Name = "Big Bird Jr"
	updated, err := c.UpdateContact(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "Big Bird Jr", updated.Name)

	page, err := c.SearchContacts(ctx, SearchCriteria{ContactID: &id})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Big Bird Jr", page.Data[0].Name)
	assert.Equal(t, "NY", page.Data[0].Address.State)

	require.NoError(t, c.DeleteContact(ctx, id))

	page, err = c.SearchContacts(ctx, SearchCriteria{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Data)
}

func TestContactClient_Rejections(t *testing.T) {
	c := NewContactClient(newServer(t).URL)
	ctx := context.Background()

	_, err := c.CreateContact(ctx, Contact{Name: "Oscar", Email: "goodemail@"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email is invalid.", apiErr.Message)

	err = c.DeleteContact(ctx, 99)
	assert.True(t, IsRejected(err))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Contact with 99 does not exist.", apiErr.Message)

	missing := 99
	_, err = c.UpdateContact(ctx, Contact{ContactID: &missing, Name: "Nobody"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "No Contact found with 99", apiErr.Message)
}

func TestContactClient_SearchPaging(t *testing.T) {
	c := NewContactClient(newServer(t).URL)
	ctx := context.Background()

	for _, name := range []string{"Big Bird", "Kermit Frog", "Miss Piggy"} {
		_, err := c.CreateContact(ctx, Contact{Name: name})
		require.NoError(t, err)
	}

	size := 2
	page, err := c.SearchContacts(ctx, SearchCriteria{Parameters: paging.Parameters{PageNumber: 2, PageSize: &size}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Miss Piggy", page.Data[0].Name)

	page, err = c.SearchContacts(ctx, SearchCriteria{Name: "Kermit Frog"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 2, *page.Data[0].ContactID)
}

func TestContactClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := NewContactClient(srv.URL, WithHTTPClient(srv.Client())).SearchContacts(context.Background(), SearchCriteria{})
	require.Error(t, err)
	assert.False(t, IsRejected(err))
	assert.Contains(t, err.Error(), "500")
}
