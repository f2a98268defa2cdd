package directions

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects whitespace-only strings, which required does not
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic("directions: registering notblank validation: " + err.Error())
	}
	return v
}

// ValidateQuery checks origin then destination before any network call
func ValidateQuery(q models.RouteQuery) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return routeerr.Wrap(routeerr.Internal, "validating route query", err)
	}

	failed := map[string]bool{}
	for _, fe := range fieldErrs {
		failed[fe.Field()] = true
	}
	if failed["Origin"] {
		return routeerr.New(routeerr.InvalidOrigin, "origin is required")
	}
	if failed["Destination"] {
		return routeerr.New(routeerr.InvalidDestination, "destination is required")
	}
	return routeerr.Wrap(routeerr.Internal, "validating route query", err)
}
