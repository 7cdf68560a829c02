// Package archive extracts meeting-report bundles into a scoped temporary
// directory whose lifetime is bound to a single run.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "attendcli/internal/errors"
)

// Extraction represents the contents of an archive extracted into a
// temporary directory. Close removes the directory and everything in it;
// callers must defer it on every path.
type Extraction struct {
	Root string
	// SpreadsheetCount is the number of workbook members extracted.
	SpreadsheetCount int
}

// Close removes the extraction directory
func (e *Extraction) Close() error {
	if e.Root == "" {
		return nil
	}
	err := os.RemoveAll(e.Root)
	e.Root = ""
	return err
}

// Extractor unpacks ZIP archives of meeting reports
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new archive extractor
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract unpacks the ZIP at zipPath into a fresh temporary directory and
// returns the extraction. It fails with an extraction error when the
// archive is missing, unreadable, or contains no spreadsheet members; the
// temporary directory never outlives a failed extraction.
func (e *Extractor) Extract(ctx context.Context, zipPath string) (*Extraction, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, apperrors.NewExtractionError("failed to open archive", err).
			WithContext("path", zipPath)
	}
	defer reader.Close()

	root, err := os.MkdirTemp("", "attendance-reports-")
	if err != nil {
		return nil, apperrors.NewExtractionError("failed to create extraction directory", err)
	}

	extraction := &Extraction{Root: root}
	for _, member := range reader.File {
		if err := e.extractMember(root, member); err != nil {
			_ = extraction.Close()
			return nil, err
		}
		if isSpreadsheetMember(member.Name) {
			extraction.SpreadsheetCount++
		}
	}

	if extraction.SpreadsheetCount == 0 {
		_ = extraction.Close()
		return nil, apperrors.NewExtractionError("archive contains no spreadsheet reports", nil).
			WithContext("path", zipPath)
	}

	e.logger.InfoContext(ctx, "archive extracted",
		slog.String("archive", zipPath),
		slog.String("root", root),
		slog.Int("spreadsheets", extraction.SpreadsheetCount))

	return extraction, nil
}

// extractMember writes a single archive member below root, rejecting
// members whose path would escape it.
func (e *Extractor) extractMember(root string, member *zip.File) error {
	target, err := sanitizePath(root, member.Name)
	if err != nil {
		return apperrors.NewExtractionError("archive member escapes extraction directory", err).
			WithContext("member", member.Name)
	}

	if member.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return apperrors.NewExtractionError("failed to create directory", err).
				WithContext("member", member.Name)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return apperrors.NewExtractionError("failed to create directory", err).
			WithContext("member", member.Name)
	}

	src, err := member.Open()
	if err != nil {
		return apperrors.NewExtractionError("failed to read archive member", err).
			WithContext("member", member.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return apperrors.NewExtractionError("failed to create extracted file", err).
			WithContext("member", member.Name)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return apperrors.NewExtractionError("failed to write extracted file", err).
			WithContext("member", member.Name)
	}

	return nil
}

// sanitizePath joins name below root and verifies the result stays inside it
func sanitizePath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal member path %q", name)
	}
	return target, nil
}

func isSpreadsheetMember(name string) bool {
	base := filepath.Base(filepath.FromSlash(name))
	if strings.HasPrefix(base, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".xlsx" || ext == ".xlsm"
}
