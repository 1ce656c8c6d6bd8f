package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rowDTO struct {
	Name  string
	Count float64 `normalize:"-"`
	Price float64
}

type formDTO struct {
	Client string
	Total  float64
	Rows   []rowDTO
	Note   *string
	Paid   *float64
	hidden string
}

func TestNormalizeDTO(t *testing.T) {
	note := "  keep "
	dto := formDTO{
		Client: "  Acme ",
		Total:  10.555,
		Rows:   []rowDTO{{Name: " Rice ", Count: 0.125, Price: 1.239}},
		Note:   &note,
		hidden: " x ",
	}
	NormalizeDTO(&dto)

	assert.Equal(t, "Acme", dto.Client)
	assert.Equal(t, 10.56, dto.Total)
	assert.Equal(t, "Rice", dto.Rows[0].Name)
	assert.Equal(t, 1.24, dto.Rows[0].Price)
	assert.Equal(t, 0.125, dto.Rows[0].Count)
	assert.Equal(t, "  keep ", *dto.Note)
	assert.Equal(t, " x ", dto.hidden)

	NormalizeDTO(dto) // not a pointer: no-op
	NormalizeDTO(nil)
}

func TestNormalizePtrDTO(t *testing.T) {
	note, paid := "  hi ", 3.14159
	dto := formDTO{Client: " untouched ", Note: &note, Paid: &paid}
	NormalizePtrDTO(&dto)

	assert.Equal(t, "hi", *dto.Note)
	assert.Equal(t, 3.14, *dto.Paid)
	assert.Equal(t, " untouched ", dto.Client)
}

type patchDTO struct {
	ClientName *string  `json:"clientName"`
	Phone      *string  `json:"clientPhone,omitempty"`
	Total      *float64 `json:"total"`
	Skip       *string  `json:"-"`
	Plain      string   `json:"plain"`
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name, skip := "Acme", "x"
	total := 5.0
	got := UpdatesFromPtrDTO(&patchDTO{ClientName: &name, Total: &total, Skip: &skip, Plain: "p"},
		map[string]string{"clientName": "client_name"})

	assert.Equal(t, map[string]any{"client_name": "Acme", "total": 5.0}, got)
	assert.Empty(t, UpdatesFromPtrDTO(nil, nil))
}

func TestParseIndex(t *testing.T) {
	assert.Equal(t, 0, ParseIndex("0"))
	assert.Equal(t, 12, ParseIndex(" 12 "))
	assert.Equal(t, -1, ParseIndex("-3"))
	assert.Equal(t, -1, ParseIndex("abc"))
	assert.Equal(t, -1, ParseIndex(""))
}
