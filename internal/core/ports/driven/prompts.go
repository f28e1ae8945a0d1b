package driven

// PromptStore serves the fmt templates sent to the LLM, keyed by the
// domain.Prompt* names. Each template consumes a fixed number of %s verbs;
// a template that does not is replaced by the built-in one.
type PromptStore interface {
	// Load returns the template called name, or an error for names without
	// a built-in default.
	Load(name string) (string, error)

	// Reload drops cached templates after they were edited on disk.
	Reload()
}
