package utils

import "github.com/gofiber/fiber/v2"

// SuccessResponse writes a standard success envelope
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes a standard error envelope with the given status code
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.Status(status).JSON(resp)
}
