package config

import "sync"

// LoadedPrompts holds prompt text read from files
type LoadedPrompts struct {
	SystemPrompt string
	UserPrompt   string
}

// AllLoadedPrompts holds the global and interview-specific prompt files
type AllLoadedPrompts struct {
	Global    LoadedPrompts
	Interview LoadedPrompts
}

var (
	loadedPrompts   AllLoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// GetLoadedInterviewPrompts returns the file-loaded interview prompts. An
// interview-specific file wins over the global one.
func GetLoadedInterviewPrompts() LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()

	result := loadedPrompts.Interview
	if result.SystemPrompt == "" {
		result.SystemPrompt = loadedPrompts.Global.SystemPrompt
	}
	if result.UserPrompt == "" {
		result.UserPrompt = loadedPrompts.Global.UserPrompt
	}
	return result
}

func storeLoadedPrompts(p AllLoadedPrompts) {
	loadedPromptsMu.Lock()
	loadedPrompts = p
	loadedPromptsMu.Unlock()
}
