package core

import (
	"encoding/json"
)

const ManifestFile = "manifest.json"

type ManifestPage struct {
	Route     string `json:"route"`
	Pattern   string `json:"pattern"`
	Component string `json:"component"`
	HTML      string `json:"html"`
	Report    string `json:"report"`
}

// Manifest lists a target's generated pages in generation order, which is
// the order whole-site aggregation must follow.
type Manifest struct {
	Target string         `json:"target"`
	Pages  []ManifestPage `json:"pages"`
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func EncodeManifest(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReportNames returns report file bases in page order without repeats.
func (m *Manifest) ReportNames() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool, len(m.Pages))
	names := make([]string, 0, len(m.Pages))
	for _, p := range m.Pages {
		if p.Report == "" || seen[p.Report] {
			continue
		}
		seen[p.Report] = true
		names = append(names, p.Report)
	}
	return names
}

func (m *Manifest) FindPage(route string) (ManifestPage, bool) {
	if m == nil {
		return ManifestPage{}, false
	}
	route = NormalizePath(route)
	for _, p := range m.Pages {
		if p.Route == route {
			return p, true
		}
	}
	return ManifestPage{}, false
}
