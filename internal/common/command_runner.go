package common

import (
	"context"
	"fmt"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/ai"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"
)

// CreateInputFunc builds the AI input, typically by extracting documents
type CreateInputFunc[Input any] func(ctx context.Context) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is a generic function signature for any AI operation with context and token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// RunAICommand builds the input, runs the AI operation, reports token usage
// and writes the formatted result. The result is returned so callers can
// post-process it.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) (Output, error) {
	var zero Output
	if logger == nil {
		logger = errors.Discard()
	}
	outputHandler := NewOutputHandler(logger)
	if cmdConfig.Stdout != nil {
		outputHandler.SetStdout(cmdConfig.Stdout)
	}

	if err := outputHandler.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return zero, err
	}

	input, err := createInput(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to create input: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return zero, err
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	return result, outputHandler.HandleOutput(result, cmdConfig)
}
