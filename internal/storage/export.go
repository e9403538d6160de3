package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Records []Record `json:"records"`
}

func ExportJSON(path string, meta RunMetadata, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := WriteJSON(file, meta, records); err != nil {
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, meta RunMetadata, records []Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Records: records})
}
