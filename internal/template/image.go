package template

import (
	"fmt"
	"path/filepath"
	"strings"
)

// supportedImageExts are the recognized image file types.
var supportedImageExts = []string{".svg", ".png", ".jpg", ".jpeg", ".bmp"}

// IsImagePath reports whether a path points to a recognized image type.
func IsImagePath(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	for _, ext := range supportedImageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ResourcesDirname is the directory inside the output that copied images
// land in.
const ResourcesDirname = "res"

// ResourcePath returns the output-relative path of a copied image.
func ResourcePath(imageName string) string {
	return filepath.ToSlash(filepath.Join(ResourcesDirname, imageName))
}

// ImageTag returns an <img> tag for the image path, at an explicit size
// when width/height are positive.
func ImageTag(path string, width, height int) string {
	if width > 0 && height > 0 {
		return fmt.Sprintf(`<img src="%s" width="%d" height="%d">`, path, width, height)
	}
	return fmt.Sprintf(`<img src="%s">`, path)
}

// parseImageSize reads a "16x16" (or bare "16", implying a square) size
// specification. Invalid or negative components come back as 0.
func parseImageSize(spec string) (width, height int, ok bool) {
	components := strings.Split(spec, "x")
	var parsed []int
	for _, c := range components {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(c, "%d", &n); err != nil || n < 0 {
			return 0, 0, false
		}
		parsed = append(parsed, n)
	}
	switch len(parsed) {
	case 0:
		return 0, 0, false
	case 1:
		// Default to a square using the width specification.
		return parsed[0], parsed[0], true
	default:
		return parsed[0], parsed[1], true
	}
}

// FillImageFields transforms image fields like {{ icon.png 16x16 }} into
// <img> tags, rewriting paths into the output resources directory. Fields
// carrying the @copy-only descriptor keep the bare path. Returns the filled
// template and the source paths of every referenced image, for copying.
func FillImageFields(in string) (string, []string) {
	var imagePaths []string

	// Only fields whose name ends in a known image extension qualify.
	pattern := "(?i)(" + strings.Join(quoteExts(), "|") + ")$"

	for {
		field, ok := FirstField(in, Filter{Name: pattern, Strict: true})
		if !ok {
			return in, imagePaths
		}

		imagePath := field.Name
		copyOnly := field.Context == CopyOnlyDescriptor

		width, height := 0, 0
		if field.Context != "" && !copyOnly {
			width, height, _ = parseImageSize(field.Context)
		}

		// Local images are copied into the output resources directory and
		// the tag points there; remote URLs are referenced as-is.
		resourcePath := imagePath
		if !isURL(imagePath) {
			resourcePath = ResourcePath(filepath.Base(imagePath))
		}

		value := ""
		if copyOnly {
			value = resourcePath
		} else {
			value = ImageTag(resourcePath, width, height)
		}

		imagePaths = append(imagePaths, imagePath)
		in = FillSingle(field, value, in, false)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func quoteExts() []string {
	quoted := make([]string, len(supportedImageExts))
	for i, ext := range supportedImageExts {
		quoted[i] = strings.ReplaceAll(ext, ".", `\.`)
	}
	return quoted
}
