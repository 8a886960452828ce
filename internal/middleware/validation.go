package middleware

import (
	"strconv"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	validatedDifficultyKey = "validated_difficulty"
	validatedIndexKey      = "validated_index"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator}
}

// ValidateSessionID rejects a malformed :id before any lookup happens.
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errors := vm.validator.ValidateSessionID(c.Params("id")); len(errors) > 0 {
			return errors
		}
		return c.Next()
	}
}

// ValidateDifficulty parses the difficulty form field (or query parameter) and stores it.
func (vm *ValidationMiddleware) ValidateDifficulty() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.FormValue("difficulty")
		if raw == "" {
			raw = c.Query("difficulty")
		}

		if errors := vm.validator.ValidateDifficulty(raw); len(errors) > 0 {
			return errors
		}

		d, _ := domain.ParseDifficulty(raw)
		c.Locals(validatedDifficultyKey, d)
		return c.Next()
	}
}

// ValidateQuestionIndex parses the :index route parameter as a non-negative integer.
func (vm *ValidationMiddleware) ValidateQuestionIndex() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("index")
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			return domain.ValidationErrors{domain.NewInvalidFormatError("index", raw)}
		}
		c.Locals(validatedIndexKey, index)
		return c.Next()
	}
}

// DifficultyFromContext returns the difficulty stored by ValidateDifficulty.
func DifficultyFromContext(c *fiber.Ctx) domain.Difficulty {
	d, _ := c.Locals(validatedDifficultyKey).(domain.Difficulty)
	return d
}

// QuestionIndexFromContext returns the index stored by ValidateQuestionIndex.
func QuestionIndexFromContext(c *fiber.Ctx) (int, bool) {
	index, ok := c.Locals(validatedIndexKey).(int)
	return index, ok
}
