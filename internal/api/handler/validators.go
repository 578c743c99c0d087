package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"oragh/backend/internal/model"
	"oragh/backend/internal/service"
)

// RegisterValidators installs the domain binding tags on gin's validator:
// instrument, event_type and attendance_value. Field errors are reported
// under their json names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	validations := map[string]validator.Func{
		"instrument": func(fl validator.FieldLevel) bool {
			return service.ValidInstrument(fl.Field().String())
		},
		"event_type": func(fl validator.FieldLevel) bool {
			return model.ValidEventType(fl.Field().String())
		},
		"attendance_value": func(fl validator.FieldLevel) bool {
			f := fl.Field()
			switch f.Kind() {
			case reflect.Float32, reflect.Float64:
				return model.ValidPresent(f.Float())
			}
			return false
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
