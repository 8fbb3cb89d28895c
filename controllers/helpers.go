package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/middleware"
	"hotel-frontdesk/roomstate"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// numeric tags (min=0) on money fields
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch v := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := v.Float64()
			return f
		case billing.Amount:
			f, _ := v.Dec().Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, billing.Amount{})

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds the JSON body and runs validator tags. It writes the
// 400 response itself; the caller just returns on false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return false
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		utils.JSONError(c, http.StatusBadRequest, strings.Join(msgs, "; "))
		return false
	}
	return true
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s: %s", billing.ErrInvalidChargeAmount, fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

var (
	badRequestErrors = []error{
		billing.ErrInvalidDate,
		billing.ErrInvalidChargeAmount,
		roomstate.ErrInvalidStatus,
		roomstate.ErrGuestRequired,
		services.ErrInvalidStayDates,
		services.ErrRoomNumberRequired,
		services.ErrGuestNameRequired,
		services.ErrUnknownPermission,
	}
	notFoundErrors = []error{
		services.ErrRoomNotFound,
		services.ErrGuestNotFound,
		services.ErrDestinationNotFound,
		services.ErrRoleNotFound,
	}
	conflictErrors = []error{
		roomstate.ErrOccupiedRoomEdit,
		roomstate.ErrOccupiedStatusChange,
		roomstate.ErrOccupiedViaStatusEdit,
		roomstate.ErrCreateOccupied,
		roomstate.ErrRoomOccupied,
		roomstate.ErrRoomNotOccupied,
		roomstate.ErrGuestMismatch,
		roomstate.ErrBillNotAccepted,
		roomstate.ErrSameRoom,
		roomstate.ErrDestinationUnavailable,
		roomstate.ErrInvariantViolated,
		services.ErrStaleRoom,
		services.ErrRoomBusy,
		services.ErrStayClosed,
		services.ErrDuplicateRoomNumber,
		services.ErrGuestNameMismatch,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func statusFor(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case isAny(err, conflictErrors):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError maps a service error onto the response envelope.
// Unknown errors are logged and reported without detail.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		utils.JSONError(c, code, "internal server error")
		return
	}
	utils.JSONError(c, code, err.Error())
}
