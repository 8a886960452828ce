// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"

	lpdf "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var pdfMagic = []byte("%PDF-")

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// Extractor implements domain.DocumentExtractor for PDF input.
type Extractor struct {
	maxBytes int64
}

var _ domain.DocumentExtractor = (*Extractor)(nil)

// NewExtractor rejects documents larger than maxBytes; zero disables the limit.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{maxBytes: maxBytes}
}

// Extract returns the text of every readable page, each followed by a newline.
// A document that yields no text is marked Failed; that is logged, never returned as an error.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) domain.ExtractedDocument {
	l := logger.Get().With(zap.String("document", name))
	doc := domain.ExtractedDocument{ID: name}

	if err := ctx.Err(); err != nil {
		doc.Failed = true
		return doc
	}

	text, err := e.extract(data)
	if err != nil {
		l.Warn("PDF extraction failed", zap.String("code", string(domain.CodeExtractionEmpty)), zap.Error(err))
		doc.Failed = true
		return doc
	}
	if strings.TrimSpace(text) == "" {
		l.Warn("PDF contains no extractable text", zap.String("code", string(domain.CodeExtractionEmpty)))
		doc.Failed = true
		return doc
	}

	doc.Text = text
	l.Debug("PDF text extracted", zap.Int("chars", len(text)))
	return doc
}

// ExtractAll runs Extract concurrently and keeps the input order.
func (e *Extractor) ExtractAll(ctx context.Context, files []File) ([]domain.ExtractedDocument, error) {
	docs := make([]domain.ExtractedDocument, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			docs[i] = e.Extract(gctx, f.Name, f.Data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (e *Extractor) extract(data []byte) (text string, err error) {
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return "", fmt.Errorf("document exceeds %d bytes", e.maxBytes)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return "", fmt.Errorf("not a PDF document")
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Get().Debug("Skipping unreadable PDF page", zap.Int("page", i), zap.Error(err))
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
