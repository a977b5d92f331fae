package extract

import (
	"fmt"
	"slices"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"
)

// UploadPolicy limits which files are accepted for extraction
type UploadPolicy struct {
	AllowedExtensions []string
	MaxFileSize       int64
}

// DefaultPolicy accepts PDF, DOCX and plain text up to 10MB
func DefaultPolicy() UploadPolicy {
	return UploadPolicy{
		AllowedExtensions: []string{".pdf", ".docx", ".txt"},
		MaxFileSize:       10 * 1024 * 1024,
	}
}

// PolicyFromConfig builds the policy from the app section of the configuration
func PolicyFromConfig(app config.AppConfig) UploadPolicy {
	p := DefaultPolicy()
	if len(app.AllowedExtensions) > 0 {
		p.AllowedExtensions = app.AllowedExtensions
	}
	if app.MaxFileSize > 0 {
		p.MaxFileSize = app.MaxFileSize
	}
	return p
}

// IsAcceptable reports whether a file of the given name and size passes the policy
func (p UploadPolicy) IsAcceptable(name string, size int64) bool {
	return p.Check(name, size) == nil
}

// Check returns a typed error naming the first rule the file breaks
func (p UploadPolicy) Check(name string, size int64) error {
	ext := utils.GetFileExtension(name)
	if !slices.Contains(p.AllowedExtensions, ext) {
		return errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type %q", ext), nil).
			WithContext("file", name)
	}
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("file is %s, limit is %s", utils.FormatFileSize(size), utils.FormatFileSize(p.MaxFileSize)), nil).
			WithContext("file", name).
			WithContext("size", size)
	}
	return nil
}
