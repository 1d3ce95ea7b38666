package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds repository-adjacent settings. Presently this is just the
// committer identity; it lives at <repo-root>/.strataconfig, one level up
// from .strata/, analogous to a per-user git config.
type Config struct {
	User UserConfig `toml:"user"`
}

// UserConfig is the [user] table of .strataconfig.
type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

func (r *Repo) configPath() string {
	return filepath.Join(r.RootDir, ".strataconfig")
}

// ReadConfig reads .strataconfig. A missing file returns a zero Config, not
// an error — identity then falls back to the environment (see Identity).
func (r *Repo) ReadConfig() (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(r.configPath(), &cfg); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .strataconfig.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}

	tmp, err := os.CreateTemp(r.RootDir, ".strataconfig-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// Identity returns the "<name> <email>" string used for a commit's
// author/committer lines. If .strataconfig is absent or incomplete, a
// missing name falls back to $USER (or "unknown") and a missing email to
// "<name>@localhost", mirroring the teacher's own fallback for an unset
// author.
func (r *Repo) Identity() (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}

	name := cfg.User.Name
	email := cfg.User.Email

	if name == "" {
		name = os.Getenv("USER")
		if name == "" {
			name = "unknown"
		}
	}
	if email == "" {
		email = name + "@localhost"
	}

	return fmt.Sprintf("%s <%s>", name, email), nil
}
