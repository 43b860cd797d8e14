package menuscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Candidate
	}{
		{
			name: "decimal price",
			text: "Chai 2.50",
			want: []Candidate{{Name: "Chai", PriceCents: 250}},
		},
		{
			name: "grouped thousands are whole units",
			text: "Nasi Goreng Rp 12.000",
			want: []Candidate{{Name: "Nasi Goreng", PriceCents: 1200000}},
		},
		{
			name: "currency symbol without decimals",
			text: "Samosa $3",
			want: []Candidate{{Name: "Samosa", PriceCents: 300}},
		},
		{
			name: "dot leaders stripped from name",
			text: "Masala Chai ....... 250",
			want: []Candidate{{Name: "Masala Chai", PriceCents: 25000}},
		},
		{
			name: "comma grouping",
			text: "Biryani 1,250",
			want: []Candidate{{Name: "Biryani", PriceCents: 125000}},
		},
		{
			name: "multiple lines with noise between",
			text: "OUR MENU\n\nChai 2.50\n-- lunch specials --\nSamosa $3\n",
			want: []Candidate{
				{Name: "Chai", PriceCents: 250},
				{Name: "Samosa", PriceCents: 300},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLines(tt.text))
		})
	}
}

func TestParseLinesRejectsNonItems(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no trailing price", text: "Ask our staff about specials"},
		{name: "price without a name", text: "₹ 150"},
		{name: "zero price", text: "Tap water 0"},
		{name: "blank input", text: "   \n\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseLines(tt.text))
		})
	}
}
