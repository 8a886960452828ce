package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"pdfquiz/internal/adapter/pdf"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/dto"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/middleware"
	"pdfquiz/internal/service"
	"pdfquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DocumentReader turns an upload batch into extracted documents, one per file, in order.
type DocumentReader interface {
	ExtractAll(ctx context.Context, files []pdf.File) ([]domain.ExtractedDocument, error)
}

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	service   service.QuizService
	documents DocumentReader
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, documents DocumentReader, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		documents: documents,
		validator: validator,
	}
}

// CreateSession handles POST /api/sessions
func (h *QuizHandler) CreateSession(c *fiber.Ctx) error {
	resp, err := h.service.CreateSession(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GenerateQuiz handles POST /api/sessions/:id/quiz.
// The body is multipart with one or more "files" parts and an optional "difficulty" field.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	sessionID := middleware.SessionIDFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("files")}
	}
	headers := form.File["files"]
	if errs := h.validator.ValidateUploadCount(len(headers)); len(errs) > 0 {
		return errs
	}

	files, err := readUploads(headers)
	if err != nil {
		return domain.NewInvalidInputError(err.Error())
	}

	docs, err := h.documents.ExtractAll(c.UserContext(), files)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded documents", err)
	}

	resp, err := h.service.Generate(c.UserContext(), sessionID, docs, middleware.DifficultyFromContext(c))
	if err != nil {
		logger.Get().Warn("Quiz generation failed",
			zap.String("session_id", sessionID),
			zap.Int("files", len(files)),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(resp)
}

// GetSession handles GET /api/sessions/:id
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), middleware.SessionIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SelectAnswer handles PUT /api/sessions/:id/answers/:index
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	index, ok := middleware.QuestionIndexFromContext(c)
	if !ok {
		return domain.ValidationErrors{domain.NewInvalidFormatError("index", c.Params("index"))}
	}

	var req dto.SelectAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be JSON")
	}
	if req.Choice == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("choice")}
	}

	resp, err := h.service.SelectAnswer(c.UserContext(), middleware.SessionIDFromContext(c), index, *req.Choice)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit handles POST /api/sessions/:id/submit
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	resp, err := h.service.Submit(c.UserContext(), middleware.SessionIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Review handles GET /api/sessions/:id/review
func (h *QuizHandler) Review(c *fiber.Ctx) error {
	resp, err := h.service.Review(c.UserContext(), middleware.SessionIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListAttempts handles GET /api/sessions/:id/attempts?limit=n
func (h *QuizHandler) ListAttempts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return domain.ValidationErrors{domain.NewInvalidFormatError("limit", c.Query("limit"))}
	}

	resp, err := h.service.ListAttempts(c.UserContext(), middleware.SessionIDFromContext(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func readUploads(headers []*multipart.FileHeader) ([]pdf.File, error) {
	files := make([]pdf.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open upload %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read upload %q: %w", fh.Filename, err)
		}
		files = append(files, pdf.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}
