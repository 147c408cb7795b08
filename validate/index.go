package validate

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"table_order/constants"
	"table_order/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// lets numeric tags such as gte=0 apply to money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Struct validates any input against its validate tags.
func Struct(input any) error {
	return validate.Struct(input)
}

// firstInvalidField names the first field that failed, for the keyError hint.
func firstInvalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}

// Body parses the request body into T, validates it and stores it in Locals
// under "input" for the handler.
func Body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(T)
		if err := c.BodyParser(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_BODY, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err, firstInvalidField(err))
		}

		// Save input to context locals
		c.Locals(constants.LOCALS_INPUT, *input)

		// Continue to next handler
		return c.Next()
	}
}

// Query does the same as Body for query-string inputs.
func Query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(T)
		if err := c.QueryParser(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_BODY, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err, firstInvalidField(err))
		}
		c.Locals(constants.LOCALS_INPUT, *input)
		return c.Next()
	}
}

// GetById checks that the route parameter is a positive integer and stores
// it under "inputId".
func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		valueKey, err := strconv.ParseUint(c.Params(key), 10, 0)
		if err != nil || valueKey == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		c.Locals(constants.LOCALS_INPUTID, uint(valueKey))
		return c.Next()
	}
}
