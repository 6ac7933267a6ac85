package server

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/models"
	"microblog/internal/pagination"
)

// parseID reads a numeric path parameter. A non-numeric id behaves like
// a missing resource, matching the route contract.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.RespondWithError(c, models.NewNotFoundError("Resource", raw))
	}
	return uint(id), nil
}

// pageParams reads page/per_page query parameters, clamped to sane
// bounds before they reach the pagination engine.
func (s *Server) pageParams(c *fiber.Ctx, defaultPerPage int) pagination.Params {
	p := pagination.Params{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", defaultPerPage),
	}
	return p.Clamp(defaultPerPage)
}

// parseBasicAuth decodes an Authorization: Basic header.
func parseBasicAuth(c *fiber.Ctx) (username, password string, ok bool) {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}
