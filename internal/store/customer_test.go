package store

import (
	"context"
	"testing"

	"retail-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCustomer(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.AddCustomer(ctx, CustomerInput{Name: " Ravi Kumar ", Phone: "98450 12345", Email: "ravi@example.com"})
	require.NoError(t, err)

	c, err := s.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", c.Name)
	assert.Equal(t, "98450 12345", c.Phone)
	assert.Equal(t, "2024-03-01 14:30:45", c.CreatedAt.String())

	_, err = s.AddCustomer(ctx, CustomerInput{Phone: "123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.GetCustomer(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchCustomers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, in := range []CustomerInput{
		{Name: "Ravi Kumar", Phone: "555-0101"},
		{Name: "Meena", Phone: "555-0199"},
		{Name: "Arjun", Phone: "777-0000"},
	} {
		_, err := s.AddCustomer(ctx, in)
		require.NoError(t, err)
	}

	names := func(term string) []string {
		t.Helper()
		list, err := s.SearchCustomers(ctx, term)
		require.NoError(t, err)
		out := []string{}
		for _, c := range list {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Meena", "Ravi Kumar"}, names("555"))
	assert.Equal(t, []string{"Ravi Kumar"}, names("KUMAR"))
	assert.Empty(t, names("zzz"))

	all, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Arjun", all[0].Name)
}

func TestUpdateCustomer_KeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id, err := s.AddCustomer(ctx, CustomerInput{Name: "Meena"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCustomer(ctx, id, CustomerInput{Name: "Meena R", Address: "12 Market Rd"}))
	c, err := s.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Meena R", c.Name)
	assert.Equal(t, "12 Market Rd", c.Address)
	assert.Equal(t, "2024-03-01 14:30:45", c.CreatedAt.String())

	assert.ErrorIs(t, s.UpdateCustomer(ctx, 99, CustomerInput{Name: "x"}), ErrNotFound)
}

func TestDeleteCustomer_SalesBecomeWalkIn(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	id, err := s.AddCustomer(ctx, CustomerInput{Name: "Arjun"})
	require.NoError(t, err)
	saleID, err := s.RecordSale(ctx, 100, 1, dec("90"), &id)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCustomer(ctx, id))

	d, err := s.SaleDetails(ctx, saleID)
	require.NoError(t, err)
	assert.Nil(t, d.CustomerID)
	assert.Equal(t, models.WalkInCustomerName, d.CustomerName)

	assert.ErrorIs(t, s.DeleteCustomer(ctx, id), ErrNotFound)
}
