package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/services"
)

var validate = validator.New()

// ErrorHandler renders every error as {"error": msg, "code": status}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// toHTTPError maps domain errors onto HTTP errors. Unknown errors are logged
// and hidden behind a generic 500.
func toHTTPError(log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "resource not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, "resource already exists")
	case errors.Is(err, services.ErrUserExists):
		return fiber.NewError(fiber.StatusConflict, services.ErrUserExists.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrAccountPending):
		return fiber.NewError(fiber.StatusForbidden, services.ErrAccountPending.Error())
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.NewError(fiber.StatusBadRequest, "only PDF documents are supported")
	case errors.Is(err, services.ErrExtractionFailure):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "could not read text from the document")
	}

	log.Error("request failed", zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			return fiber.NewError(fiber.StatusBadRequest, "validation error: "+ve.Field()+" - "+ve.Tag())
		}
		return fiber.NewError(fiber.StatusBadRequest, "validation error: invalid request")
	}
	return nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
