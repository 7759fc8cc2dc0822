package types

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

// Validator returns the shared validator with the trip enumerations registered.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		mustRegister(v, "budget", func(fl validator.FieldLevel) bool {
			return slices.Contains(BudgetLevels, fl.Field().String())
		})
		mustRegister(v, "travelers", func(fl validator.FieldLevel) bool {
			return slices.Contains(TravelerGroups, fl.Field().String())
		})
		mustRegister(v, "transport_mode", func(fl validator.FieldLevel) bool {
			return slices.Contains(TransportModes, TransportMode(fl.Field().String()))
		})
		mustRegister(v, "travel_style", func(fl validator.FieldLevel) bool {
			return slices.Contains(TravelStyles, TravelStyle(fl.Field().String()))
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}
