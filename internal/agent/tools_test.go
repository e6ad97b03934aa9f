package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

func TestItemsFromText(t *testing.T) {
	tools := NewTools(nil, nil)

	tests := []struct {
		in   string
		want []string
	}{
		{"I need bread, milk and eggs", []string{"bread", "milk", "eggs"}},
		{"i'd like some green beans and rice please", []string{"green beans", "rice"}},
		{"apples bananas", []string{"apples", "bananas"}},
		{"Milk, milk, MILK", []string{"Milk"}},
		{"please", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tools.ItemsFromText(tt.in), tt.in)
	}
}

func TestToolsStorePrices(t *testing.T) {
	tools := NewTools(nil, nil)

	res, err := tools.StorePrices("tesco", []string{"bread"})
	require.NoError(t, err)
	assert.Equal(t, domain.Tesco, res.Store)
	assert.Equal(t, 1.05, res.Total)
	assert.Equal(t, "2 hours", res.DeliveryTimeFormatted)

	_, err = tools.StorePrices("aldi", []string{"bread"})
	assert.True(t, errors.Is(err, domain.ErrUnknownStore))
}

func TestToolsCompare(t *testing.T) {
	res := NewTools(nil, nil).Compare([]string{"bread"})
	require.Len(t, res.Comparisons, 4)
	assert.Equal(t, domain.Asda, res.Cheapest.Store)
	assert.Equal(t, domain.Tesco, res.Fastest.Store)
	assert.True(t, res.Comparisons[2].Cheapest)
	assert.True(t, res.Comparisons[1].Fastest)
}

func TestToolsParseItems(t *testing.T) {
	res := NewTools(nil, nil).ParseItems("bread, milk. eggs")
	assert.Equal(t, []string{"bread", "milk", "eggs"}, res.Items)
	assert.Equal(t, 3, res.ItemCount)
	assert.Equal(t, "Found 3 item(s): bread, milk, eggs", res.Message)
}
