package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestCart_TotalAndCount(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ProductID: 1, Price: 50.00, Quantity: 2},
		{ProductID: 2, Price: 120.00, Quantity: 1},
	}}

	assert.Equal(t, 220.00, cart.Total())
	assert.Equal(t, 3, cart.Count())
}

func TestCart_FindLineMatchesIdentityTriple(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ProductID: 1, Size: ptr("M"), Color: ptr("preto")},
		{ProductID: 1, Size: ptr("G"), Color: ptr("preto")},
		{ProductID: 2},
	}}

	assert.Equal(t, 0, cart.FindLine(1, ptr("M"), ptr("preto")))
	assert.Equal(t, 1, cart.FindLine(1, ptr("G"), ptr("preto")))
	assert.Equal(t, -1, cart.FindLine(1, ptr("P"), ptr("preto")))
}

func TestCart_FindLineNilVariantOnlyMatchesNil(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ProductID: 2},
		{ProductID: 2, Size: ptr("M")},
	}}

	assert.Equal(t, 0, cart.FindLine(2, nil, nil))
	assert.Equal(t, 1, cart.FindLine(2, ptr("M"), nil))
	assert.Equal(t, -1, cart.FindLine(2, nil, ptr("preto")))
}
