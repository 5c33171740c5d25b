package store

import (
	"bytes"
	"encoding/json"

	"github.com/amirasaad/urbanbank/pkg/repository"
)

// decodeRecords parses a JSON array of objects. Numbers are kept as
// json.Number so account numbers and balances survive untouched. Array
// items that are not objects are dropped.
func decodeRecords(data []byte) ([]repository.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	records := make([]repository.Record, 0, len(raw))
	for _, item := range raw {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// decodeRecord parses a single JSON object.
func decodeRecord(data []byte) (repository.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rec repository.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// encodeRecords renders records as an indented JSON array without HTML
// escaping. A nil slice is written as [].
func encodeRecords(records []repository.Record) ([]byte, error) {
	if records == nil {
		records = []repository.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRecord(record repository.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
