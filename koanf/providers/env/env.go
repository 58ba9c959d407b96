package env

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-serverconf/logger"
	"github.com/tidwall/sjson"
)

// Env is a koanf provider that renders matching environment variables as a
// JSON document, so it must be paired with the koanf json parser.
type Env struct {
	prefix  string
	delim   string
	cb      func(key string) string
	environ func() []string
	logger  logger.Logger
}

// Provider captures the variables starting with prefix (case-sensitive).
// cb maps a variable name to its config key; an empty result drops the variable.
// Keys are nested on delim, e.g. with delim "." the key `server.port` becomes
// `{"server": {"port": ...}}`. Values are always strings.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	return &Env{
		prefix:  prefix,
		delim:   delim,
		cb:      cb,
		environ: os.Environ,
		logger:  logger.NopLogger{},
	}
}

// SetLogger sets the logger used to report captured keys.
func (e *Env) SetLogger(l logger.Logger) {
	if l == nil {
		return
	}
	e.logger = l
}

// SetEnviron replaces the variable source, which defaults to os.Environ.
func (e *Env) SetEnviron(fn func() []string) {
	if fn == nil {
		return
	}
	e.environ = fn
}

// ReadBytes returns the captured variables as JSON.
func (e *Env) ReadBytes() ([]byte, error) {
	vars := e.environ()
	sort.Strings(vars)

	out := "{}"
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}

		key := name
		if e.cb != nil {
			key = e.cb(name)
		}
		if key == "" {
			continue
		}

		path := key
		if e.delim != "" && e.delim != "." {
			path = strings.ReplaceAll(key, e.delim, ".")
		}

		var err error
		out, err = sjson.Set(out, path, value)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("env %s -> %s", name, path)
	}

	return []byte(out), nil
}

// Read is not supported, use ReadBytes with a JSON parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support this method")
}
