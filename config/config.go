// Package config loads the optional .svlrc.jsonc project configuration
// file: a default backend, default output path, dataset path aliases, and
// a log level. The backend, output path and datasets are overridable by CLI
// flags; the log level is decoded into Config.LogLevel but no command reads
// it. Comments in the file are
// stripped with tidwall/jsonc before stdlib decoding, the same
// preprocess-then-decode idiom the teacher's JSON adapter uses for its own
// jsonc-tolerant input.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/timothyrenner/svl/diag"
)

// Config is the decoded contents of a .svlrc.jsonc file. Every field is
// optional; the zero value means "use the built-in default."
type Config struct {
	Backend    string            `json:"backend"`
	OutputFile string            `json:"output_file"`
	Datasets   map[string]string `json:"datasets"`
	LogLevel   string            `json:"log_level"`
}

// FileName is the project configuration file's fixed name, resolved in the
// current working directory.
const FileName = ".svlrc.jsonc"

// Load reads and decodes path. A missing file is not an error: it returns
// the zero Config, since the project configuration is always optional.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, newConfigError("reading %s: %s", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Config{}, newConfigError("parsing %s: %s", path, err)
	}

	if cfg.Backend != "" && cfg.Backend != "plotly" && cfg.Backend != "vega" {
		return Config{}, newConfigError("%s: backend must be \"plotly\" or \"vega\", got %q", path, cfg.Backend)
	}

	return cfg, nil
}

// Error reports a malformed configuration file, tagged with E_SVL_CONFIG
// per spec.md §7's error taxonomy.
type Error struct {
	Code diag.Code
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newConfigError(format string, args ...any) *Error {
	return &Error{Code: diag.E_SVL_CONFIG, msg: fmt.Sprintf(format, args...)}
}
