package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/3-lines-studio/semkit/internal/templates"
)

// StarterSource serves the embedded starter projects to semkit init.
type StarterSource struct{}

func NewStarterSource() *StarterSource {
	return &StarterSource{}
}

func (s *StarterSource) Starter(name string) (fs.FS, error) {
	if name == "" {
		name = templates.Default
	}
	starter, err := templates.GetTemplate(name)
	if errors.Is(err, templates.ErrInvalidTemplate) {
		return nil, fmt.Errorf("%w %q (available: %s)", err, name, strings.Join(templates.Names, ", "))
	}
	return starter, err
}
