package router

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the AccessFlow binding rules to gin's validator
// and reports field names by their json or form tag
func RegisterValidators() error {
	registerOnce.Do(func() {
		registerErr = registerValidators()
	})
	return registerErr
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(tagName)
	if err := v.RegisterValidation("initials", func(fl validator.FieldLevel) bool {
		return domain.ValidInitials(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register initials validator: %w", err)
	}
	if err := v.RegisterValidation("staffinitials", func(fl validator.FieldLevel) bool {
		return domain.ValidStaffInitials(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register staffinitials validator: %w", err)
	}
	return nil
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
