package server

import (
	"database/sql"
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handlers carries the repository set shared by all route handlers.
type Handlers struct {
	repos Repositories
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func unescapeParam(c *fiber.Ctx, key string) (string, error) {
	return url.PathUnescape(c.Params(key))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
