package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/logger"
)

// FindModelFile locates the model file to open. The preferred filename wins
// when it exists in dir; otherwise the lexically first file with the given
// extension is used as a fallback. When nothing matches, the returned error
// wraps ErrNoModelFile.
func FindModelFile(dir, preferred, ext string) (string, error) {
	if preferred != "" {
		path := filepath.Join(dir, preferred)
		if _, err := os.Stat(path); err == nil {
			logger.Info("using model file", "path", path)
			return path, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read model directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %s file in %s", ErrNoModelFile, ext, dir)
	}

	sort.Strings(candidates)
	fallback := filepath.Join(dir, candidates[0])
	logger.Warn("preferred model not found, falling back",
		"preferred", preferred, "fallback", fallback, "candidates", len(candidates))
	return fallback, nil
}
