package common

import (
	"fmt"
	"io"
	"os"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/formatters"
)

// StdoutPath selects standard output as the destination of a document
const StdoutPath = "-"

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	// Stdout replaces os.Stdout when set
	Stdout io.Writer
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	if logger == nil {
		logger = errors.Discard()
	}
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// SetStdout redirects output that would go to standard output
func (oh *OutputHandler) SetStdout(w io.Writer) {
	oh.stdout = w
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	return oh.write(config.OutputFile, []byte(output), "format", config.OutputFormat)
}

// WriteDocument writes a rendered binary document to path, or to standard
// output when path is empty or "-"
func (oh *OutputHandler) WriteDocument(data []byte, path string) error {
	if err := oh.fileProcessor.ValidateOutputFile(path); err != nil {
		return err
	}
	return oh.write(path, data, "bytes", len(data))
}

func (oh *OutputHandler) write(path string, data []byte, args ...any) error {
	if path == "" || path == StdoutPath {
		if _, err := oh.stdout.Write(data); err != nil {
			return errors.NewIOError("STDOUT_WRITE_FAILED", "Cannot write to standard output", err)
		}
		return nil
	}

	if err := oh.fileProcessor.WriteFile(path, data); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully", append([]any{"file", path}, args...)...)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
