package store

import (
	"context"
	"testing"

	"retail-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)

	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Twin Mattress", p.Name)
	assert.True(t, dec("50").Equal(p.PurchasePrice))
	assert.True(t, dec("90").Equal(p.SalePrice))
	assert.Equal(t, 10, p.TotalAdded)
	assert.Equal(t, 0, p.Sold)
	assert.Equal(t, 10, p.Remaining)
	assert.Equal(t, models.DefaultCategoryID, p.CategoryID)
	assert.Equal(t, models.DefaultCategoryName, p.CategoryName)
	assert.False(t, p.HasImage())
}

func TestAddProduct_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)

	err := s.AddProduct(ctx, NewProduct{
		KeyNumber: 100, Name: "Queen Mattress", PurchasePrice: dec("70"), SalePrice: dec("120"), TotalAdded: 5,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Twin Mattress", p.Name)
}

func TestAddProduct_Validation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	valid := NewProduct{KeyNumber: 1, Name: "Lamp", PurchasePrice: dec("5"), SalePrice: dec("9"), TotalAdded: 1}
	cases := map[string]func(p *NewProduct){
		"zero key":          func(p *NewProduct) { p.KeyNumber = 0 },
		"empty name":        func(p *NewProduct) { p.Name = " " },
		"zero purchase":     func(p *NewProduct) { p.PurchasePrice = dec("0") },
		"negative sale":     func(p *NewProduct) { p.SalePrice = dec("-1") },
		"negative quantity": func(p *NewProduct) { p.TotalAdded = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			assert.ErrorIs(t, s.AddProduct(ctx, p), ErrInvalidInput)
		})
	}

	missing := valid
	missing.CategoryID = 42
	assert.ErrorIs(t, s.AddProduct(ctx, missing), ErrNotFound)
}

func TestAddProduct_WithImage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.AddProduct(ctx, NewProduct{
		KeyNumber: 7, Name: "Pillow", PurchasePrice: dec("3"), SalePrice: dec("8"), TotalAdded: 4,
		ImagePath: "images/pillow.png", ImageData: []byte{0x89, 'P', 'N', 'G'},
	}))

	p, err := s.GetProduct(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, p.ImagePath)
	assert.Equal(t, "images/pillow.png", *p.ImagePath)
	assert.True(t, p.HasImage())

	raw := models.Product{ImageData: p.ImageData}
	data, err := raw.ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	require.NoError(t, s.UpdateProductImage(ctx, 7, nil, nil))
	p, err = s.GetProduct(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, p.ImagePath)
	assert.Nil(t, p.ImageData)

	assert.ErrorIs(t, s.UpdateProductImage(ctx, 8, nil, nil), ErrNotFound)
}

func TestUpdateProduct_Partial(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	beds, err := s.AddCategory(ctx, "Beds", "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateProduct(ctx, 100, ProductUpdate{
		SalePrice:  Some(dec("95.50")),
		CategoryID: Some(beds),
	}))

	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Twin Mattress", p.Name, "unset fields are untouched")
	assert.True(t, dec("50").Equal(p.PurchasePrice))
	assert.True(t, dec("95.5").Equal(p.SalePrice))
	assert.Equal(t, "Beds", p.CategoryName)
}

func TestUpdateProduct_Failures(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	_, err := s.RecordSale(ctx, 100, 4, dec("90"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateProduct(ctx, 100, ProductUpdate{}), ErrNoChanges)
	assert.ErrorIs(t, s.UpdateProduct(ctx, 555, ProductUpdate{Name: Some("Ghost")}), ErrNotFound)
	assert.ErrorIs(t, s.UpdateProduct(ctx, 100, ProductUpdate{TotalAdded: Some(3)}), ErrInvalidInput)
	assert.ErrorIs(t, s.UpdateProduct(ctx, 100, ProductUpdate{CategoryID: Some(uint(99))}), ErrNotFound)

	require.NoError(t, s.UpdateProduct(ctx, 100, ProductUpdate{TotalAdded: Some(4)}))
	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Remaining)
}

func TestRestockProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)

	require.NoError(t, s.RestockProduct(ctx, 100, 5))
	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 15, p.TotalAdded)

	assert.ErrorIs(t, s.RestockProduct(ctx, 100, 0), ErrInvalidInput)
	assert.ErrorIs(t, s.RestockProduct(ctx, 101, 1), ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	require.NoError(t, s.AddProduct(ctx, NewProduct{
		KeyNumber: 2, Name: "Mattress Topper 100%", PurchasePrice: dec("10"), SalePrice: dec("25"), TotalAdded: 3,
	}))

	keys := func(term string) []int64 {
		t.Helper()
		list, err := s.SearchProducts(ctx, term)
		require.NoError(t, err)
		out := []int64{}
		for _, p := range list {
			out = append(out, p.KeyNumber)
		}
		return out
	}

	assert.Equal(t, []int64{2, 100}, keys("100"), "key match and name substring")
	assert.Equal(t, []int64{2, 100}, keys("mattress"))
	assert.Equal(t, []int64{2, 100}, keys("MATTRESS"))
	assert.Empty(t, keys("xyz"))
	assert.Equal(t, []int64{2}, keys("100%"), "percent sign is literal")
	assert.Empty(t, keys("Twin_Mattress"), "underscore is literal")
}

func TestListProducts_ByCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	beds, err := s.AddCategory(ctx, "Beds", "")
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(ctx, NewProduct{
		KeyNumber: 5, Name: "Bunk Bed", PurchasePrice: dec("100"), SalePrice: dec("180"), TotalAdded: 2, CategoryID: beds,
	}))

	all, err := s.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, 5, all[0].KeyNumber)

	inBeds, err := s.ListProducts(ctx, &beds)
	require.NoError(t, err)
	require.Len(t, inBeds, 1)
	assert.Equal(t, "Bunk Bed", inBeds[0].Name)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	addMattress(t, s)
	require.NoError(t, s.AddProduct(ctx, NewProduct{
		KeyNumber: 3, Name: "Sheet", PurchasePrice: dec("4"), SalePrice: dec("7"), TotalAdded: 2,
	}))
	_, err := s.RecordSale(ctx, 100, 1, dec("90"), nil)
	require.NoError(t, err)

	err = s.DeleteProduct(ctx, 100)
	assert.ErrorIs(t, err, ErrProductHasSales)
	_, err = s.GetProduct(ctx, 100)
	assert.NoError(t, err, "product with sales is kept")

	require.NoError(t, s.DeleteProduct(ctx, 3))
	_, err = s.GetProduct(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteProduct(ctx, 3), ErrNotFound)
}
