package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weiawesome/foodgram/internal/domain"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []domain.CartLine
		want  []Item
	}{
		{
			name:  "empty cart",
			lines: nil,
			want:  []Item{},
		},
		{
			name: "same ingredient and unit across recipes is summed",
			lines: []domain.CartLine{
				{Name: "Flour", Unit: "g", Amount: 200},
				{Name: "Flour", Unit: "g", Amount: 300},
			},
			want: []Item{
				{Index: 1, Name: "Flour", Unit: "g", Amount: 500},
			},
		},
		{
			name: "different units stay separate",
			lines: []domain.CartLine{
				{Name: "Milk", Unit: "ml", Amount: 200},
				{Name: "Milk", Unit: "cup", Amount: 1},
				{Name: "Milk", Unit: "ml", Amount: 50},
			},
			want: []Item{
				{Index: 1, Name: "Milk", Unit: "cup", Amount: 1},
				{Index: 2, Name: "Milk", Unit: "ml", Amount: 250},
			},
		},
		{
			name: "ordered by name",
			lines: []domain.CartLine{
				{Name: "Sugar", Unit: "g", Amount: 100},
				{Name: "Flour", Unit: "g", Amount: 200},
				{Name: "Butter", Unit: "g", Amount: 50},
				{Name: "Flour", Unit: "g", Amount: 300},
				{Name: "Sugar", Unit: "g", Amount: 50},
			},
			want: []Item{
				{Index: 1, Name: "Butter", Unit: "g", Amount: 50},
				{Index: 2, Name: "Flour", Unit: "g", Amount: 500},
				{Index: 3, Name: "Sugar", Unit: "g", Amount: 150},
			},
		},
		{
			name: "byte order puts uppercase before lowercase",
			lines: []domain.CartLine{
				{Name: "salt", Unit: "g", Amount: 1},
				{Name: "Salt", Unit: "g", Amount: 2},
			},
			want: []Item{
				{Index: 1, Name: "Salt", Unit: "g", Amount: 2},
				{Index: 2, Name: "salt", Unit: "g", Amount: 1},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Aggregate(tt.lines))
		})
	}
}

func TestAggregateThenText(t *testing.T) {
	t.Parallel()

	// Two recipes in the cart: (Flour 200g, Sugar 100g) and
	// (Flour 300g, Butter 50g, Sugar 50g).
	lines := []domain.CartLine{
		{Name: "Flour", Unit: "g", Amount: 200},
		{Name: "Sugar", Unit: "g", Amount: 100},
		{Name: "Flour", Unit: "g", Amount: 300},
		{Name: "Butter", Unit: "g", Amount: 50},
		{Name: "Sugar", Unit: "g", Amount: 50},
	}

	got := string(RenderText(Aggregate(lines)))
	assert.Equal(t, "Butter - 50g\nFlour - 500g\nSugar - 150g", got)
}
