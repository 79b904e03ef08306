// Package resource copies images referenced by cards into the output
// directory and reports the ones lying around unused.
package resource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardpress/cardpress/internal/template"
	"github.com/cardpress/cardpress/internal/warning"
)

// CopyImages copies every referenced image into the output resources
// directory ("res/"). Relative paths are resolved against the directory of
// the referencing context (a datasource or template path). Remote URLs are
// skipped; an identically named resource with different content is
// overwritten with a warning. Returns the filenames that were copied.
func CopyImages(imagePaths []string, contextPath, outputPath string, display *warning.Display) []string {
	ctx := warning.Context{Source: filepath.Base(contextPath)}

	var copied []string
	for _, imagePath := range imagePaths {
		if isURL(imagePath) {
			if display != nil {
				display.Warnf(ctx, "image was not copied: '%s' (is a URL)", imagePath)
			}
			continue
		}

		source := imagePath
		if !filepath.IsAbs(source) && contextPath != "" {
			source = filepath.Join(filepath.Dir(contextPath), source)
		}
		source = filepath.Clean(source)

		if !isFile(source) {
			if display != nil {
				display.Errorf(ctx, "image not found: '%s'", source)
			}
			continue
		}

		name := filepath.Base(imagePath)
		destination := filepath.Join(outputPath, template.ResourcePath(name))

		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			if display != nil {
				display.Errorf(ctx, "could not create resources directory: %v", err)
			}
			continue
		}

		wasCopied, existed, err := copyIfChanged(source, destination)
		if err != nil {
			if display != nil {
				display.Errorf(ctx, "could not copy image '%s': %v", source, err)
			}
			continue
		}
		if existed && wasCopied && display != nil {
			// Same name, different content; possibly two distinct images
			// colliding in res/.
			display.Warnf(ctx, "resource '%s' was overwritten by '%s'", name, source)
		}
		copied = append(copied, name)
	}
	return copied
}

// Unused returns the names and paths of files in the output resources
// directory that no card referenced in this build.
func Unused(outputPath string, copiedNames []string) (names, paths []string) {
	resourcesPath := filepath.Join(outputPath, template.ResourcesDirname)

	entries, err := os.ReadDir(resourcesPath)
	if err != nil {
		return nil, nil
	}

	used := make(map[string]bool, len(copiedNames))
	for _, name := range copiedNames {
		used[name] = true
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || used[name] {
			continue
		}
		names = append(names, name)
		paths = append(paths, filepath.Join(resourcesPath, name))
	}
	return names, paths
}

// copyIfChanged copies source over destination unless an identical file is
// already there.
func copyIfChanged(source, destination string) (copied, existed bool, err error) {
	srcData, err := os.ReadFile(source)
	if err != nil {
		return false, false, fmt.Errorf("reading %s: %w", source, err)
	}

	if dstData, err := os.ReadFile(destination); err == nil {
		if bytes.Equal(srcData, dstData) {
			return false, true, nil
		}
		existed = true
	}

	if err := os.WriteFile(destination, srcData, 0o644); err != nil {
		return false, existed, fmt.Errorf("writing %s: %w", destination, err)
	}
	return true, existed, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
