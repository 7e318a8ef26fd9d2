package core

import (
	"encoding/json"
	"fmt"
)

// PageRecord describes one style-bearing element of a rendered page.
type PageRecord struct {
	Path      string `json:"path"`
	Tag       string `json:"tag"`
	DataClass string `json:"dataClass,omitempty"`
	ClassName string `json:"className,omitempty"`
}

// Signature returns the normalized class signature of the record.
func (r PageRecord) Signature() ClassSignature {
	return NormalizeClasses(r.ClassName)
}

// Token returns the record's token, falling back to its tag.
func (r PageRecord) Token() SemanticToken {
	if r.DataClass != "" {
		return SemanticToken(r.DataClass)
	}
	return SemanticToken(r.Tag)
}

// DedupeRecords keeps the first record of every (token, signature) pair,
// preserving traversal order.
func DedupeRecords(records []PageRecord) []PageRecord {
	type key struct {
		token     SemanticToken
		signature ClassSignature
	}

	seen := make(map[key]bool, len(records))
	result := make([]PageRecord, 0, len(records))
	for _, r := range records {
		k := key{token: r.Token(), signature: r.Signature()}
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, r)
	}
	return result
}

func EncodeReport(records []PageRecord) ([]byte, error) {
	if records == nil {
		records = []PageRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

func DecodeReport(data []byte) ([]PageRecord, error) {
	var records []PageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return records, nil
}
