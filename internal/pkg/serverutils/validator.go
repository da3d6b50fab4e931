// FILE: internal/pkg/serverutils/validator.go
package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// fiber 400 with field-level messages.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		for _, ve := range err.(validator.ValidationErrors) {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", ve.Field(), ve.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, strings.Join(fields, "; "))
	}
	return nil
}
