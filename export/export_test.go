package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshit9241/billing-webiste-sub000/models"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:            "o1",
			ClientName:    "Acme, Inc",
			ClientGst:     "27AAA",
			OrderStatus:   models.OrderSell,
			PaymentStatus: models.PaymentPending,
			GrandTotal:    120.5,
			AmountPaid:    20,
			Timestamp:     models.TimestampFromTime(time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)),
			Products: []models.Product{
				{Name: "Rice", Count: 2, Total: 100},
				{Name: "Oil", Count: 1.5, Total: 20.5},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())
	assert.Equal(t, "orders-2024-01-05.csv", f.Filename(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleOrders(), time.UTC))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"o1", "Acme, Inc", "", "27AAA", "sell", "pending",
		"120.5", "20", "100.5", "2024-01-05 09:30", "Rice x 2; Oil x 1.5", "false",
	}, rows[1])
}

func TestWriteCSVEscapesFormulas(t *testing.T) {
	orders := []models.Order{{
		ID:          "o2",
		ClientName:  "=HYPERLINK(\"http://x\")",
		ClientPhone: "+91 98765",
		ClientGst:   "@SUM(A1)",
		GrandTotal:  10,
		AmountPaid:  30,
		Products:    []models.Product{{Name: "-cmd", Count: 1, Total: 10}},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orders, time.UTC))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `'=HYPERLINK("http://x")`, rows[1][1])
	assert.Equal(t, "'+91 98765", rows[1][2])
	assert.Equal(t, "'@SUM(A1)", rows[1][3])
	assert.Equal(t, "-20", rows[1][8], "numeric cells are left alone")
	assert.Equal(t, "'-cmd x 1", rows[1][10])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleOrders(), time.UTC))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "o1", decoded[0]["id"])
	assert.Equal(t, 120.5, decoded[0]["grandTotal"])
	assert.Len(t, decoded[0]["products"], 2)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
