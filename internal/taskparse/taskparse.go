// Package taskparse validates assignment files and extracts their text.
package taskparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedTaskFile = errors.New("unsupported task file: use .txt, .md or .pdf")
	ErrNotPDF              = errors.New("file must be a PDF")
	ErrEmptyPDF            = errors.New("PDF appears to be empty or contains no extractable text")
)

// User-facing upload messages.
const (
	MsgNoFile       = "No file provided"
	MsgNotPDF       = "File must be a PDF"
	MsgEmptyPDF     = "PDF appears to be empty or contains no extractable text"
	MsgPDFFailed    = "Failed to parse PDF"
	MsgFileTooLarge = "File is too large"
)

// Kind is how a task file's text is obtained.
type Kind int

const (
	KindText Kind = iota // read locally as UTF-8
	KindPDF              // sent to the parse service
)

// DetectKind classifies a task file by extension. Anything other than
// .txt, .md or .pdf is rejected.
func DetectKind(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	}
	return 0, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedTaskFile)
}

// IsPDF reports whether an upload looks like a PDF by content type or name.
func IsPDF(name, contentType string) bool {
	return contentType == "application/pdf" || strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// ReadText reads a plain-text task file.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read task file: %w", err)
	}
	return string(b), nil
}

// ExtractPDF returns the trimmed plain text of the PDF read from r.
func ExtractPDF(r io.Reader) (text string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	// The pdf reader panics on some malformed object streams.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", p)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrEmptyPDF
	}
	return text, nil
}
