package models

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	// MaxUploadBytes is the exclusive upper bound for an upload.
	MaxUploadBytes int64 = 500 * 1024 * 1024
	// MaxTitleLength bounds titles on create and edit.
	MaxTitleLength = 500
)

// AllowedExtensions lists the accepted video file extensions, lower case.
var AllowedExtensions = []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv"}

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = fmt.Errorf("title must be %d characters or fewer", MaxTitleLength)
	ErrFileRequired      = errors.New("video file is required")
	ErrUnsupportedFormat = errors.New("only video files can be uploaded (" + strings.Join(AllowedExtensions, ", ") + ")")
	ErrFileTooLarge      = errors.New("video must be smaller than 500MB")
)

// UploadFile is the file half of a create request.
type UploadFile struct {
	Name string
	Size int64
	Body io.Reader
}

// ValidateTitle checks a title for create and edit.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateFile checks the name and size of a file before any network call.
func ValidateFile(name string, size int64) error {
	if name == "" {
		return ErrFileRequired
	}
	if !HasVideoExtension(name) {
		return fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if size >= MaxUploadBytes {
		return fmt.Errorf("%s: %w", name, ErrFileTooLarge)
	}
	return nil
}

// ValidateUpload runs title and file checks in the order a user fills the form.
func ValidateUpload(title, name string, size int64) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return ValidateFile(name, size)
}

// HasVideoExtension matches the extension case-insensitively.
func HasVideoExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
