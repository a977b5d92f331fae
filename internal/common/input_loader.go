package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/utils"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// InputLoader reads analysis payloads from JSON or YAML files
type InputLoader struct {
	files    *FileProcessor
	validate *validator.Validate
}

// NewInputLoader creates a loader that validates every decoded payload
func NewInputLoader(logger *errors.Logger) *InputLoader {
	return &InputLoader{
		files:    NewFileProcessor(logger),
		validate: validator.New(),
	}
}

// IsInputFile reports whether the name has an extension the loader decodes
func IsInputFile(name string) bool {
	switch utils.GetFileExtension(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and decodes the payload stored at path
func (l *InputLoader) Load(path string) (*types.ReportInput, error) {
	contents, err := l.files.ValidateAndReadFiles(path)
	if err != nil {
		return nil, err
	}
	in, err := l.Decode(path, contents[0])
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithContext("file", path)
		}
		return nil, err
	}
	return in, nil
}

// Decode parses data as YAML when name ends in .yaml or .yml and as JSON
// otherwise, then validates score ranges and severities
func (l *InputLoader) Decode(name string, data []byte) (*types.ReportInput, error) {
	var in types.ReportInput

	switch utils.GetFileExtension(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				"analysis payload is not valid YAML", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&in); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				"analysis payload is not valid JSON", err)
		}
	}

	if err := l.validate.Struct(&in); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid analysis payload %s", name), err)
	}
	return &in, nil
}
