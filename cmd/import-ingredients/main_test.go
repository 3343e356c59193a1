package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/internal/domain"
)

func TestReadIngredients(t *testing.T) {
	items, err := readIngredients(strings.NewReader(`[
		{"name": "абрикосовое варенье", "measurement_unit": "г"},
		{"name": "flour", "measurement_unit": "g"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Ingredient{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "flour", MeasurementUnit: "g"},
	}, items)

	_, err = readIngredients(strings.NewReader(`{"name": "flour"}`))
	assert.Error(t, err)
}
