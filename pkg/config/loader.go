package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultNames are the config file names probed, in order, when no
// explicit --config path is given.
var DefaultNames = []string{
	".ocrrc.yaml",
	".ocrrc.yml",
	".ocrrc.hcl",
	".ocrrc.json",
}

// FindConfigFile probes dir for a config file using DefaultNames and
// returns the first that exists.
func FindConfigFile(ctx context.Context, dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", errors.Errorf("probing config file %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("found config file")
		return path, nil
	}
	return "", errors.Errorf("no config file found in %s (tried %v)", dir, DefaultNames)
}

// TODO(dr.methodical): 🔧 support an OCRRC_CONFIG env override before the probe
