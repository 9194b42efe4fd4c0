package utils

import (
	"encoding/json"
	"os"
)

// Unmarshal JSON to generic struct
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}

// ReadJSONFile decodes the JSON document at path into output.
func ReadJSONFile[T any](path string, output *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return UnmarshalFromJSON(data, output)
}
