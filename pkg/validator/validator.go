package validator

import (
	validators "github.com/go-playground/validator/v10"
)

// historyViews are the accepted values of the historyview tag
var historyViews = map[string]struct{}{
	"":           {},
	"original":   {},
	"normalized": {},
	"patient":    {},
	"doctor":     {},
}

// Validator interface
type Validator interface {
	ValidateStruct(inf interface{}) error
}

type validator struct {
	validator *validators.Validate
}

// New Validator func
func New() Validator {
	v := validators.New()
	if err := v.RegisterValidation("historyview", validateHistoryView); err != nil {
		panic(err)
	}
	return &validator{
		validator: v,
	}
}

// ValidateStruct func
func (v *validator) ValidateStruct(inf interface{}) error {
	return v.validator.Struct(inf)
}

func validateHistoryView(fl validators.FieldLevel) bool {
	_, ok := historyViews[fl.Field().String()]
	return ok
}
