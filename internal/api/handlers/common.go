package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const maxLimit = 100

// queryLimit reads ?limit=, falling back to def when it is missing or out of range.
func queryLimit(c *fiber.Ctx, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		return def
	}
	return limit
}

func queryOffset(c *fiber.Ctx) int {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// currentUser is empty for anonymous requests behind OptionalAuthMiddleware.
func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
