package datasource

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultDiscoverPatterns match datasources when none are named explicitly.
var DefaultDiscoverPatterns = []string{"*.csv", "**/*.csv"}

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]bool{
	".git":      true,
	"generated": true,
	"node_modules": true,
}

// Discover walks root for CSV datasources matching any of the given glob
// patterns (doublestar "**" supported; nil means DefaultDiscoverPatterns).
// Definitions files are excluded, since they are not card data. Results
// are sorted for a stable build order.
func Discover(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultDiscoverPatterns
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip unreadable entries instead of aborting discovery.
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || (d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if isDefinitionsFile(rel) {
			return nil
		}
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(filepath.ToSlash(pattern), rel); err == nil && ok {
				found = append(found, path)
				return nil
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

func isDefinitionsFile(relPath string) bool {
	base := filepath.Base(relPath)
	return base == DefinitionsFilename || strings.HasSuffix(base, ".definitions.csv")
}
