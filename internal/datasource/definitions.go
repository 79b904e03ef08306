package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefinitionsFilename is the conventional name of the definitions file
// looked for next to the first datasource.
const DefinitionsFilename = "definitions.csv"

// LoadDefinitions reads a definitions file: a CSV of key/value pairs whose
// first row is a header. Commented rows are skipped. Rows with more than
// two fields keep only the first two.
func LoadDefinitions(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening definitions: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// Skip the header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading definitions header: %w", err)
	}

	definitions := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading definitions: %w", err)
		}
		if len(record) == 0 || strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(record[0]))
		value := ""
		if len(record) > 1 {
			value = record[1]
		}
		if key != "" {
			definitions[key] = value
		}
	}

	return definitions, nil
}

// FindDefinitionsPath looks for a definitions file near the given
// datasources: first a file named exactly "definitions.csv" in the
// directory of the first datasource, then files named like
// "cards.definitions.csv" next to each datasource. The boolean reports
// whether anything was found.
func FindDefinitionsPath(dataPaths []string) (string, bool) {
	if len(dataPaths) == 0 {
		return "", false
	}

	candidate := filepath.Join(filepath.Dir(dataPaths[0]), DefinitionsFilename)
	if isFile(candidate) {
		return candidate, true
	}

	for _, path := range dataPaths {
		ext := filepath.Ext(path)
		candidate := strings.TrimSuffix(path, ext) + ".definitions" + ext
		if isFile(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
