package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

// fileLayer mirrors one TOML file. Nil fields are absent from the file.
type fileLayer struct {
	APIToken      *string `toml:"api_token,omitempty"`
	APIBaseURL    *string `toml:"api_base_url,omitempty"`
	Model         *string `toml:"model,omitempty"`
	SystemPrompt  *string `toml:"system_prompt,omitempty"`
	DefaultPrompt *string `toml:"default_prompt,omitempty"`
	UserPrompt    *string `toml:"user_prompt,omitempty"`
}

// readLayer decodes path. A missing file yields an empty layer.
func readLayer(path string) (*fileLayer, bool, error) {
	layer := &fileLayer{}
	if path == "" {
		return layer, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return layer, false, nil
		}
		return nil, false, apperrors.Wrap(err, apperrors.ErrConfigParse, "failed to read configuration file "+path)
	}
	if _, err := toml.Decode(string(data), layer); err != nil {
		return nil, true, apperrors.NewConfigParseError(path, err)
	}
	if layer.SystemPrompt == nil && layer.DefaultPrompt != nil {
		layer.SystemPrompt = layer.DefaultPrompt
	}
	layer.DefaultPrompt = nil
	return layer, true, nil
}

// writeLayer rewrites path with the layer's fields.
func writeLayer(path string, layer *fileLayer) error {
	if path == "" {
		return apperrors.New(apperrors.ErrNoWritableLocation, "no configuration file location available")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(layer); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigWrite, "failed to encode configuration")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrNoWritableLocation, "failed to create configuration directory")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigWrite, "failed to write configuration file "+path)
	}
	return nil
}

func (l *fileLayer) field(key string) **string {
	switch key {
	case KeyAPIToken:
		return &l.APIToken
	case KeyAPIBaseURL:
		return &l.APIBaseURL
	case KeyModel:
		return &l.Model
	case KeySystemPrompt:
		return &l.SystemPrompt
	case KeyUserPrompt:
		return &l.UserPrompt
	}
	return nil
}

// lookup returns the value for a normalized key. Empty strings count as absent.
func (l *fileLayer) lookup(key string) (string, bool) {
	f := l.field(key)
	if f == nil || *f == nil || **f == "" {
		return "", false
	}
	return **f, true
}

// set stores value under a normalized key; an empty value removes it.
func (l *fileLayer) set(key, value string) {
	f := l.field(key)
	if f == nil {
		return
	}
	if value == "" {
		*f = nil
		return
	}
	*f = &value
}

// values returns the present keys as a map for viper.
func (l *fileLayer) values() map[string]any {
	out := make(map[string]any)
	for _, k := range Keys {
		if v, ok := l.lookup(k); ok {
			out[k] = v
		}
	}
	return out
}
