package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles reads custom prompts from the configured file paths
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	var all AllLoadedPrompts
	if err := loadPromptPair(c.AI.CustomPrompts, &all.Global, "global"); err != nil {
		return fmt.Errorf("failed to load global prompts: %w", err)
	}
	if err := loadPromptPair(c.AI.Interview.CustomPrompts, &all.Interview, "interview"); err != nil {
		return fmt.Errorf("failed to load interview prompts: %w", err)
	}
	storeLoadedPrompts(all)

	logPromptLoadingSummary(all)
	return nil
}

func loadPromptPair(cfg PromptConfig, target *LoadedPrompts, scope string) error {
	if cfg.SystemPromptFile != "" {
		content, err := loadPromptFromFile(cfg.SystemPromptFile, "system", scope)
		if err != nil {
			return err
		}
		target.SystemPrompt = content
	}
	if cfg.UserPromptFile != "" {
		content, err := loadPromptFromFile(cfg.UserPromptFile, "user", scope)
		if err != nil {
			return err
		}
		target.UserPrompt = content
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, scope string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", scope, promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", scope, promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", scope, promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", scope, promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		scope, promptType, absPath, len(trimmed))

	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, label string) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", label, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", label, absPath))
		}
	}

	validateFile(c.AI.CustomPrompts.SystemPromptFile, "global system")
	validateFile(c.AI.CustomPrompts.UserPromptFile, "global user")
	validateFile(c.AI.Interview.CustomPrompts.SystemPromptFile, "interview system")
	validateFile(c.AI.Interview.CustomPrompts.UserPromptFile, "interview user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}

func logPromptLoadingSummary(all AllLoadedPrompts) {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	count := 0
	for _, check := range []struct {
		content string
		label   string
	}{
		{all.Global.SystemPrompt, "Global system prompt"},
		{all.Global.UserPrompt, "Global user prompt"},
		{all.Interview.SystemPrompt, "Interview system prompt"},
		{all.Interview.UserPrompt, "Interview user prompt"},
	} {
		if check.content != "" {
			log.Printf("[CONFIG] %s: loaded from file", check.label)
			count++
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}
	log.Println("[CONFIG] ==========================================")
}
