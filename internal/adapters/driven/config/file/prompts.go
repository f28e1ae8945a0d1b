package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves prompt templates from <dir>/<name>.txt, seeding the
// directory with the built-in templates on first use. Templates are cached
// until Reload.
type PromptStore struct {
	promptDir string
	defaults  map[string]string

	mu    sync.RWMutex
	cache map[string]string

	initOnce sync.Once
	initErr  error
}

// NewPromptStore performs no I/O. An empty promptDir means
// ~/.privashield/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		defaults:  domain.DefaultPrompts(),
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template called name. Unreadable files and files whose
// placeholder count differs from the built-in template yield the built-in
// template.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

func (s *PromptStore) resolve(name string) (string, error) {
	def, known := s.defaults[name]
	if s.initErr != nil {
		if known {
			return def, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	prompt, err := s.loadFromFile(name)
	switch {
	case err != nil && known:
		return def, nil
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case known && placeholders(prompt) != placeholders(def):
		logger.Warn("Prompt %q has %d placeholders, expected %d; using default",
			name, placeholders(prompt), placeholders(def))
		return def, nil
	}
	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise seeds missing template files and the README. Existing files
// are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	for name, content := range s.defaults {
		if err := writeIfMissing(filepath.Join(s.promptDir, name+".txt"), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}
	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), promptReadme); err != nil {
		s.initErr = fmt.Errorf("create prompt readme: %w", err)
	}
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// placeholders counts the fmt verbs a template consumes.
func placeholders(tmpl string) int {
	return strings.Count(tmpl, "%s") + strings.Count(tmpl, "%d")
}

const promptReadme = `# PrivaShield Prompts

This directory contains the prompts sent to the language model.

## Files

- ` + "`policy_summary.txt`" + ` - Risk summary produced when a policy is first analysed
- ` + "`query_expansion.txt`" + ` - Paraphrases a chat question to improve retrieval
- ` + "`grounded_answer.txt`" + ` - Answers a question from retrieved policy excerpts
- ` + "`risk_report.txt`" + ` - Structured risk report (JSON)
- ` + "`permission_map.txt`" + ` - Maps device permissions to policy statements (JSON)
- ` + "`hidden_clauses.txt`" + ` - Flags unusual or buried clauses (JSON)

## Customisation

Edit any file to customise model behaviour. A running server picks up
changes automatically; CLI commands read them on the next run.

## Format Placeholders

Prompts use Go fmt placeholders (` + "`%s`" + `). Keep the same number of
placeholders in the same order, otherwise the built-in prompt is used.
`
