// Package templates holds the starter projects written by semkit init.
package templates

import (
	"embed"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:markup
var markupFS embed.FS

//go:embed all:react
var reactFS embed.FS

const Default = "markup"

// Names lists the available starters.
var Names = []string{"markup", "react"}

var ErrInvalidTemplate = errors.New("invalid template name")

func GetTemplate(name string) (fs.FS, error) {
	switch name {
	case "markup":
		return fs.Sub(markupFS, "markup")
	case "react":
		return fs.Sub(reactFS, "react")
	default:
		return nil, ErrInvalidTemplate
	}
}

type TemplateData struct {
	Name string
}

func ProcessFilename(filename string) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data TemplateData) []byte {
	if !isTemplate {
		return content
	}
	return []byte(strings.ReplaceAll(string(content), "{{.Name}}", data.Name))
}

// DeriveName names the project after its directory.
func DeriveName(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "site"
	}
	return base
}
