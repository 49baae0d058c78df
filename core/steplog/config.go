package steplog

import "fmt"

// Config selects the step log backend. An empty backend disables the log.
type Config struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// DefaultPath is the jsonl file used when none is configured.
const DefaultPath = "steps.jsonl"

// DefaultSQLitePath is the database used by the sqlite backend when none is
// configured.
const DefaultSQLitePath = "steps.db"

// SetDefaults fills the path of a file backend.
func (c *Config) SetDefaults() {
	if c.Path != "" {
		return
	}
	switch c.Backend {
	case "jsonl":
		c.Path = DefaultPath
	case "sqlite":
		c.Path = DefaultSQLitePath
	}
}

// Validate checks the backend settings.
func (c Config) Validate() error {
	switch c.Backend {
	case "", "memory":
		return nil
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("steplog: path is required for the %s backend", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("steplog: unknown backend %q", c.Backend)
	}
}

// New builds the configured store. It returns nil when the log is disabled.
func New(c Config) (LogStore, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "jsonl":
		s, err := NewJSONLStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLiteStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, nil
	}
}
