package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/roomstate"
	"hotel-frontdesk/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("check-in date: %w", billing.ErrInvalidDate), http.StatusBadRequest},
		{fmt.Errorf("%w: laundryCharges is negative", billing.ErrInvalidChargeAmount), http.StatusBadRequest},
		{services.ErrGuestNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 999", services.ErrDestinationNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: 101", roomstate.ErrOccupiedRoomEdit), http.StatusConflict},
		{fmt.Errorf("%w: 102 is cleaning", roomstate.ErrDestinationUnavailable), http.StatusConflict},
		{fmt.Errorf("%w: room 101", services.ErrStaleRoom), http.StatusConflict},
		{services.ErrRoomBusy, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestValidatorAmounts(t *testing.T) {
	type payload struct {
		Paid billing.Amount `json:"amountPaid" validate:"min=0"`
	}
	assert.NoError(t, validate.Struct(payload{Paid: billing.NewAmount(10)}))
	assert.NoError(t, validate.Struct(payload{}))
	assert.Error(t, validate.Struct(payload{Paid: billing.NewAmount(-1)}))
}
