package validation

import (
	"regexp"
	"strings"

	"pdfquiz/internal/domain"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct {
	maxFiles int
}

// NewValidator creates a request validator; maxFiles bounds a single upload.
func NewValidator(maxFiles int) *Validator {
	return &Validator{maxFiles: maxFiles}
}

// ValidateSessionID checks that id is a ULID.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", id))
	}

	return errors
}

// ValidateDifficulty accepts blank (unset) or easy/medium/hard in any case.
func (v *Validator) ValidateDifficulty(difficulty string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if _, err := domain.ParseDifficulty(difficulty); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", difficulty))
	}

	return errors
}

// ValidateSelection checks a question index against the quiz length and the option index.
func (v *Validator) ValidateSelection(index, choice, quizLen int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if quizLen == 0 {
		errors = append(errors, domain.ValidationError{
			Code:    domain.CodeOutOfRange,
			Field:   "index",
			Message: "quiz has no questions",
			Value:   index,
		})
	} else if index < 0 || index >= quizLen {
		errors = append(errors, domain.NewOutOfRangeError("index", index, 0, quizLen-1))
	}

	if choice < 0 || choice >= domain.OptionCount {
		errors = append(errors, domain.NewOutOfRangeError("choice", choice, 0, domain.OptionCount-1))
	}

	return errors
}

// ValidateUploadCount checks the number of files in one generate request.
func (v *Validator) ValidateUploadCount(count int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if count == 0 {
		errors = append(errors, domain.NewMissingFieldError("files"))
	} else if v.maxFiles > 0 && count > v.maxFiles {
		errors = append(errors, domain.NewOutOfRangeError("files", count, 1, v.maxFiles))
	}

	return errors
}

func isValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
