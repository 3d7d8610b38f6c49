package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, "", false},
		{StatusCancelled, "", false},
		{OrderStatus("returned"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			next, ok := NextStatus(tt.from)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, next)
		})
	}
}

func TestActionLabel(t *testing.T) {
	assert.Equal(t, "Confirm", ActionLabel(StatusConfirmed))
	assert.Equal(t, "Mark Delivered", ActionLabel(StatusDelivered))
	assert.Empty(t, ActionLabel(StatusPending))
}
