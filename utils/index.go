package utils

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse writes {success:false, error:message}. The underlying error is
// echoed as "details" for client errors only; server errors stay opaque.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil && status < fiber.StatusInternalServerError {
		body["details"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func ErrorResponseHaveKey(c *fiber.Ctx, status int, message string, err error, keyError string) error {
	body := fiber.Map{
		"success":  false,
		"error":    message,
		"keyError": keyError,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}

	return query
}

func Ptr[T any](v T) *T {
	return &v
}
