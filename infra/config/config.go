package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Dir is the directory holding the json config files.
var Dir = "infra/config"

// Load loads the config for the given key into v.
// Fields missing from the file keep the values v already holds.
// A missing file is reported with an error wrapping os.ErrNotExist.
func Load(key string, v interface{}) error {
	p := filepath.Join(Dir, fmt.Sprintf("%s.json", key))
	b, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not load config for %s: %w", key, err)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}

	log.Info().Str("config", key).Str("path", p).Msg("loaded config")
	return nil
}
