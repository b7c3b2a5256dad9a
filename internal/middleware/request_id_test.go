package middleware

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_GeneratesULID(t *testing.T) {
	app := fiber.New()
	app.Use(NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDKey)
	require.Len(t, id, 26)
}

func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(NewRequestIDMiddleware())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(RequestIDKey).(string)
		return c.SendStatus(fiber.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDKey, "caller-supplied-id")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "caller-supplied-id", seen)
	require.Equal(t, "caller-supplied-id", resp.Header.Get(RequestIDKey))
}
