// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rustaceans

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"rustaceans/internal/rustacean"
)

// validate is shared by every handler; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateBody checks the struct tags of a decoded body and reports the
// first failure as a validation error.
func validateBody(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return rustacean.Validation(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return rustacean.Validation(fe.Field() + " is required")
	case "max":
		return rustacean.Validation(fe.Field() + " is too long")
	case "email":
		return rustacean.Validation(fe.Field() + " is not a valid address")
	default:
		return rustacean.Validation(fe.Field() + " is invalid")
	}
}
