package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputConfig names the files written at the end of a run. Empty paths are
// skipped.
type OutputConfig struct {
	CSV  string `json:"csv"`
	JSON string `json:"json"`
}

// Validate checks the file extensions.
func (c OutputConfig) Validate() error {
	if c.CSV != "" && strings.ToLower(filepath.Ext(c.CSV)) != ".csv" {
		return fmt.Errorf("csv output %q must end in .csv", c.CSV)
	}
	if c.JSON != "" && strings.ToLower(filepath.Ext(c.JSON)) != ".json" {
		return fmt.Errorf("json output %q must end in .json", c.JSON)
	}
	return nil
}
