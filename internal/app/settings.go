package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither an override nor a setting is present.
const (
	DefaultUppercase     = true
	DefaultIncludeBraces = false
)

// Settings represents configuration loaded from config.yaml.
// Pointer fields distinguish "not set" from an explicit false.
type Settings struct {
	Uppercase     *bool `yaml:"uppercase" json:"uppercase,omitempty"`
	IncludeBraces *bool `yaml:"include_braces" json:"include_braces,omitempty"`

	// Source is the file the settings were read from, empty when none was found.
	Source string `yaml:"-" json:"source,omitempty"`
}

// IsZero reports whether no setting is present.
func (s Settings) IsZero() bool {
	return s.Uppercase == nil && s.IncludeBraces == nil
}

// ResolveBool returns override if set, else persisted if set, else def.
func ResolveBool(override, persisted *bool, def bool) bool {
	if override != nil {
		return *override
	}
	if persisted != nil {
		return *persisted
	}
	return def
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// configPathOverrideMu and configPathOverride hold the process-wide --config override.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	configPathOverrideMu sync.RWMutex
	configPathOverride   string
)

// SetConfigPathOverride sets a process-wide config file path.
// Intended for CLI flag support (e.g. --config).
func SetConfigPathOverride(path string) {
	configPathOverrideMu.Lock()
	configPathOverride = path
	configPathOverrideMu.Unlock()
}

func getConfigPathOverride() string {
	configPathOverrideMu.RLock()
	v := configPathOverride
	configPathOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first file that sets a key wins):
// 0) --config override (must exist, used even if empty)
// 1) ~/.config/guidgenie/config.yaml
// 2) /etc/guidgenie/config.yaml
// 3) ./config.yaml (lowest priority)
// A candidate with every key commented out, like the generated default, is
// skipped. No file at all is not an error: every setting falls back to its
// default.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		if p := getConfigPathOverride(); p != "" {
			s, err := loadSettingsFile(p)
			if err != nil {
				settingsErr = fmt.Errorf("load config %s: %w", p, err)
				return
			}
			settings = s
			return
		}

		candidates := make([]string, 0, 3)
		if dir, err := ConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(dir, "config.yaml"))
		} else {
			settingsErr = err
			return
		}
		candidates = append(candidates,
			filepath.Join(string(os.PathSeparator), "etc", "guidgenie", "config.yaml"),
			"config.yaml",
		)

		for _, path := range candidates {
			s, err := loadSettingsFile(path)
			if err == nil {
				if s.IsZero() {
					continue
				}
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = fmt.Errorf("load config %s: %w", path, err)
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	s.Source = path
	return s, nil
}
