package store

import (
	"encoding/json"
	"os"
)

// ExportJSON writes run metadata to a file for scripting against the
// run history.
func ExportJSON(path string, runs []RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(runs)
}

// ExportJSONStdout prints run metadata to stdout.
func ExportJSONStdout(runs []RunMetadata) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(runs)
}
