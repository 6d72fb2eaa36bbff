package customers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type fakeRepo struct {
	customers  map[int64]Customer
	referenced map[int64]bool
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers:  make(map[int64]Customer),
		referenced: make(map[int64]bool),
		nextID:     1,
	}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, &shared.NotFoundError{Kind: "customer", ID: id}
	}
	return &customer, nil
}

func (f *fakeRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.customers[id]
	return ok, nil
}

func (f *fakeRepo) List(_ context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, customer := range f.customers {
		if req.Search != nil && !strings.Contains(strings.ToLower(customer.Name), strings.ToLower(*req.Search)) {
			continue
		}
		out = append(out, customer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, customer Customer) (*Customer, error) {
	customer.ID = f.nextID
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	f.nextID++
	f.customers[customer.ID] = customer
	return &customer, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	customer, ok := f.customers[id]
	if !ok {
		return &shared.NotFoundError{Kind: "customer", ID: id}
	}
	if name, ok := updates["name"].(string); ok {
		customer.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		customer.Email = &email
	}
	if address, ok := updates["address"].(string); ok {
		customer.Address = &address
	}
	customer.UpdatedAt = time.Now()
	f.customers[id] = customer
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return &shared.NotFoundError{Kind: "customer", ID: id}
	}
	if f.referenced[id] {
		return &shared.ReferencedError{Kind: "customer", ID: id}
	}
	delete(f.customers, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	created, err := svc.Create(ctx, CreateCustomerRequest{
		Name:  "Frank Windram",
		Email: strPtr("frank@example.test"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Frank Windram", got.Name)
	require.NotNil(t, got.Email)
	require.Equal(t, "frank@example.test", *got.Email)
}

func TestGetMissingCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	_, err := svc.Get(ctx, 42)
	var nfe *shared.NotFoundError
	require.True(t, errors.As(err, &nfe))
	require.Equal(t, "could not find customer 42", nfe.Error())
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	created, err := svc.Create(ctx, CreateCustomerRequest{Name: "Mary"})
	require.NoError(t, err)

	ok, err := svc.Exists(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Exists(ctx, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListCustomersSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	for _, name := range []string{"Mary Windram", "Frank Sharp", "Mary Sharp"} {
		_, err := svc.Create(ctx, CreateCustomerRequest{Name: name})
		require.NoError(t, err)
	}

	customers, total, err := svc.List(ctx, ListCustomersRequest{Search: strPtr("mary")})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, customers, 2)
}

func TestUpdateCustomerPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	created, err := svc.Create(ctx, CreateCustomerRequest{Name: "Mary", Email: strPtr("mary@example.test")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateCustomerRequest{Name: strPtr("Mary Windram")})
	require.NoError(t, err)
	require.Equal(t, "Mary Windram", updated.Name)
	// Unset fields stay untouched.
	require.NotNil(t, updated.Email)
	require.Equal(t, "mary@example.test", *updated.Email)

	// An empty update is a plain read.
	same, err := svc.Update(ctx, created.ID, UpdateCustomerRequest{})
	require.NoError(t, err)
	require.Equal(t, updated.Name, same.Name)
}

func TestDeleteReferencedCustomer(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(ctx, CreateCustomerRequest{Name: "Mary"})
	require.NoError(t, err)
	repo.referenced[created.ID] = true

	err = svc.Delete(ctx, created.ID)
	var refErr *shared.ReferencedError
	require.True(t, errors.As(err, &refErr))
	require.Equal(t, created.ID, refErr.ID)
}
