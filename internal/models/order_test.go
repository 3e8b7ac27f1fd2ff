package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLifecycleIsLinear(t *testing.T) {
	s := StatusPending
	var walked []OrderStatus
	for {
		walked = append(walked, s)
		next := s.Next()
		if next == s {
			break
		}
		s = next
	}
	assert.Equal(t, Statuses(), walked)
	assert.True(t, s.Terminal())
}

func TestStatusNextClampsAtTerminal(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusCompleted.Next())
}

func TestStatusPrevClampsAtFirst(t *testing.T) {
	assert.Equal(t, StatusPending, StatusPending.Prev())
	assert.Equal(t, StatusPreparing, StatusReady.Prev())
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("BURNT").Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.Equal(t, OrderStatus("BURNT"), OrderStatus("BURNT").Next(), "unknown status never advances")
}

func TestActiveStatusesExcludeTerminal(t *testing.T) {
	active := ActiveStatuses()
	assert.Len(t, active, 4)
	assert.NotContains(t, active, StatusCompleted)
}

func TestOrderValidate(t *testing.T) {
	good := Order{
		ID:           "o1",
		TicketNumber: 12,
		CustomerName: "Ada",
		Status:       StatusPending,
		Items:        []OrderItem{{ID: "burger", Name: "OmniBurger", Qty: 2}},
	}
	assert.NoError(t, good.Validate())

	missing := good
	missing.ID = ""
	assert.Error(t, missing.Validate())

	badStatus := good
	badStatus.Status = "BURNT"
	assert.Error(t, badStatus.Validate())

	badQty := good
	badQty.Items = []OrderItem{{ID: "burger", Qty: 0}}
	assert.Error(t, badQty.Validate())
}
