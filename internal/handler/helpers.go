package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sap-mentor-api/internal/middleware"
)

// mentorEmailFromPath decodes the :mentorEmail path segment. Emails arrive
// percent-encoded, so the raw parameter is unescaped before validation.
func mentorEmailFromPath(c *fiber.Ctx) (string, error) {
	raw := c.Params("mentorEmail")
	if raw == "" {
		return "", errors.New("mentor email required")
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.New("invalid mentor email")
	}

	email := strings.ToLower(strings.TrimSpace(decoded))
	if !strings.Contains(email, "@") {
		return "", errors.New("invalid mentor email")
	}
	return email, nil
}

// resolveMentor returns the mentor the request acts for. When the bearer
// token carries an email it must match the path parameter, so one mentor can
// never read another's queue.
func resolveMentor(c *fiber.Ctx) (string, error) {
	email, err := mentorEmailFromPath(c)
	if err != nil {
		return "", err
	}

	if tokenEmail := middleware.TokenMentorEmail(c); tokenEmail != "" && !strings.EqualFold(tokenEmail, email) {
		return "", errMentorMismatch
	}
	return email, nil
}

var errMentorMismatch = errors.New("mentor email does not match token")

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	idParam := c.Params("id")
	if idParam == "" {
		return 0, errors.New("id required")
	}
	parsed, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
