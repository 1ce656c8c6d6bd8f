package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshit9241/billing-webiste-sub000/models"
)

var fixedNow = time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

func orderWith(products ...ProductInput) models.Order {
	o := models.Order{ClientName: "Acme", BillMode: models.BillFull}
	for _, in := range products {
		o.Products = append(o.Products, BuildProduct(in, fixedNow))
	}
	o.GrandTotal = ComputeGrandTotal(o.Products)
	o.PaymentStatus = models.PaymentPending
	return o
}

func TestValidateProductInput(t *testing.T) {
	tests := []struct {
		name  string
		in    ProductInput
		mode  models.BillMode
		field string
	}{
		{"ok", ProductInput{Name: "Rice", Count: 1, Price: 10}, models.BillFull, ""},
		{"missing name", ProductInput{Count: 1, Price: 10}, models.BillFull, "name"},
		{"half bill without name", ProductInput{Count: 1, Price: 10}, models.BillHalf, ""},
		{"zero count", ProductInput{Name: "Rice", Price: 10}, models.BillFull, "count"},
		{"zero price", ProductInput{Name: "Rice", Count: 2}, models.BillFull, "price"},
		{"discount above 100", ProductInput{Name: "Rice", Count: 1, Price: 1, Discount: 101}, models.BillFull, "discount"},
		{"negative discount", ProductInput{Name: "Rice", Count: 1, Price: 1, Discount: -1}, models.BillFull, "discount"},
		{"NaN count", ProductInput{Name: "Rice", Count: flex(math.NaN()), Price: 1}, models.BillFull, "count"},
		{"count above max", ProductInput{Name: "Rice", Count: MaxQuantity + 1, Price: 1}, models.BillFull, "count"},
		{"infinite price", ProductInput{Name: "Rice", Count: 1, Price: flex(math.Inf(1))}, models.BillFull, "price"},
		{"price above max", ProductInput{Name: "Rice", Count: 1, Price: 1e11}, models.BillFull, "price"},
		{"line total above max", ProductInput{Name: "Rice", Count: MaxQuantity, Price: 1e9}, models.BillFull, "total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProductInput(tt.in, tt.mode)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestBuildProduct(t *testing.T) {
	p := BuildProduct(ProductInput{Name: " Rice ", Count: 2, Price: 50, Discount: 10}, fixedNow)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Rice", p.Name)
	assert.Equal(t, 100.0, p.Subtotal)
	assert.Equal(t, 10.0, p.DiscountAmount)
	assert.Equal(t, 90.0, p.Total)
	assert.Equal(t, models.TimestampFromTime(fixedNow), p.Timestamp)

	kept := BuildProduct(ProductInput{ID: "p-1", Name: "Oil", Count: 1, Price: 5}, fixedNow)
	assert.Equal(t, "p-1", kept.ID)
}

func TestBuildProductKeepsFractionalCount(t *testing.T) {
	p := BuildProduct(ProductInput{Name: "Saffron", Count: 0.125, Price: 80.004}, fixedNow)
	assert.Equal(t, 0.125, p.Count)
	assert.Equal(t, 80.0, p.Price)
	assert.Equal(t, 10.0, p.Total)
}

func TestAddProductRejectsOversizedTotal(t *testing.T) {
	o := orderWith(ProductInput{Name: "Gold", Count: 1, Price: 9e9})

	_, err := AddProduct(o, ProductInput{Name: "Gold", Count: 1, Price: 9e9}, fixedNow)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "grandTotal", ve.Field)
	assert.Len(t, o.Products, 1)
}

func TestAddProduct(t *testing.T) {
	o := orderWith(ProductInput{Name: "Rice", Count: 1, Price: 20})
	o.AmountPaid = 20
	o.PaymentStatus = models.PaymentCleared

	out, err := AddProduct(o, ProductInput{Name: "Oil", Count: 2, Price: 5}, fixedNow)
	require.NoError(t, err)
	assert.Len(t, out.Products, 2)
	assert.Equal(t, 30.0, out.GrandTotal)
	assert.Equal(t, models.PaymentPending, out.PaymentStatus)
	assert.Len(t, o.Products, 1, "input order must not change")

	_, err = AddProduct(o, ProductInput{Name: "Oil"}, fixedNow)
	assert.True(t, IsValidation(err))
}

func TestEditProductDiscount(t *testing.T) {
	o := orderWith(
		ProductInput{Name: "Rice", Count: 2, Price: 50},
		ProductInput{Name: "Oil", Count: 1, Price: 15},
	)
	require.Equal(t, 115.0, o.GrandTotal)
	id := o.Products[0].ID

	out, err := EditProduct(o, 0, ProductInput{Name: "Rice", Count: 2, Price: 50, Discount: 10})
	require.NoError(t, err)

	p := out.Products[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, o.Products[0].Timestamp, p.Timestamp)
	assert.Equal(t, 100.0, p.Subtotal)
	assert.Equal(t, 10.0, p.DiscountAmount)
	assert.Equal(t, 90.0, p.Total)
	assert.Equal(t, 105.0, out.GrandTotal)
	assert.Equal(t, 0.0, o.Products[0].Discount)
}

func TestEditProductOutOfRange(t *testing.T) {
	o := orderWith(ProductInput{Name: "Rice", Count: 1, Price: 1})
	_, err := EditProduct(o, 3, ProductInput{Name: "x", Count: 1, Price: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = DeleteProduct(o, -1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteOnlyProductResetsPayment(t *testing.T) {
	o := orderWith(ProductInput{Name: "Rice", Count: 1, Price: 100})
	o.AmountPaid = 100
	o.PaymentStatus = models.PaymentCleared

	out, err := DeleteProduct(o, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Products)
	assert.Equal(t, 0.0, out.GrandTotal)
	assert.Equal(t, 0.0, out.AmountPaid)
	assert.Equal(t, models.PaymentPending, out.PaymentStatus)
}

func TestProductEditClampsAmountPaid(t *testing.T) {
	o := orderWith(
		ProductInput{Name: "Rice", Count: 1, Price: 100},
		ProductInput{Name: "Oil", Count: 1, Price: 50},
	)
	o.AmountPaid = 120

	out, err := DeleteProduct(o, 0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.GrandTotal)
	assert.Equal(t, 50.0, out.AmountPaid)
	assert.Equal(t, models.PaymentCleared, out.PaymentStatus)
	assert.LessOrEqual(t, out.AmountPaid, out.GrandTotal)

	out, err = EditProduct(o, 1, ProductInput{Name: "Oil", Count: 1, Price: 50, Discount: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.GrandTotal)
	assert.Equal(t, 100.0, out.AmountPaid)
}

func TestReconcileKeepsPartialPayment(t *testing.T) {
	o := orderWith(ProductInput{Name: "Rice", Count: 1, Price: 100})
	o.AmountPaid = 40
	out := ReconcileAfterProductChange(o)
	assert.Equal(t, 40.0, out.AmountPaid)
	assert.Equal(t, models.PaymentPending, out.PaymentStatus)
}
