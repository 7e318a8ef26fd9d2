package templates

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestProcessFilename(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		wantFilename string
		wantIsTmpl   bool
	}{
		{
			name:         "tmpl file gets processed",
			filename:     "semkit.yaml.tmpl",
			wantFilename: "semkit.yaml",
			wantIsTmpl:   true,
		},
		{
			name:         "regular file unchanged",
			filename:     "routes.yaml",
			wantFilename: "routes.yaml",
			wantIsTmpl:   false,
		},
		{
			name:         "nested tmpl file",
			filename:     "src/routes/Home.tsx.tmpl",
			wantFilename: "src/routes/Home.tsx",
			wantIsTmpl:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFilename, gotIsTmpl := ProcessFilename(tt.filename)
			if gotFilename != tt.wantFilename {
				t.Errorf("ProcessFilename(%q) filename = %q, want %q", tt.filename, gotFilename, tt.wantFilename)
			}
			if gotIsTmpl != tt.wantIsTmpl {
				t.Errorf("ProcessFilename(%q) isTmpl = %v, want %v", tt.filename, gotIsTmpl, tt.wantIsTmpl)
			}
		})
	}
}

func TestProcessContent(t *testing.T) {
	data := TemplateData{Name: "notes"}

	tests := []struct {
		name       string
		content    string
		isTemplate bool
		want       string
	}{
		{
			name:       "non-template content unchanged",
			content:    "title: {{.Name}}",
			isTemplate: false,
			want:       "title: {{.Name}}",
		},
		{
			name:       "template with Name placeholder",
			content:    "title: {{.Name}}\n",
			isTemplate: true,
			want:       "title: notes\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProcessContent([]byte(tt.content), tt.isTemplate, data)
			if string(got) != tt.want {
				t.Errorf("ProcessContent(%q) = %q, want %q", tt.content, string(got), tt.want)
			}
		})
	}
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		projectDir string
		want       string
	}{
		{"/home/user/notes", "notes"},
		{".", "site"},
		{"/", "site"},
		{"", "site"},
		{"/path/to/blog", "blog"},
	}

	for _, tt := range tests {
		t.Run(tt.projectDir, func(t *testing.T) {
			if got := DeriveName(tt.projectDir); got != tt.want {
				t.Errorf("DeriveName(%q) = %q, want %q", tt.projectDir, got, tt.want)
			}
		})
	}
}

func TestGetTemplate(t *testing.T) {
	tests := []struct {
		template string
		wantFile string
		wantErr  error
	}{
		{template: "markup", wantFile: "pages/index.html"},
		{template: "react", wantFile: "src/main.tsx"},
		{template: "desktop", wantErr: ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			templateFS, err := GetTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetTemplate(%q) error = %v", tt.template, err)
			}
			if _, err := fs.ReadFile(templateFS, tt.wantFile); err != nil {
				t.Errorf("%s template should include %s: %v", tt.template, tt.wantFile, err)
			}
			config, err := fs.ReadFile(templateFS, "semkit.yaml.tmpl")
			if err != nil {
				t.Fatalf("%s template has no semkit.yaml.tmpl: %v", tt.template, err)
			}
			if !strings.Contains(string(config), "{{.Name}}") {
				t.Errorf("%s semkit.yaml.tmpl does not use the project name", tt.template)
			}
		})
	}
}

func TestEveryNameResolves(t *testing.T) {
	for _, name := range Names {
		if _, err := GetTemplate(name); err != nil {
			t.Errorf("GetTemplate(%q) error = %v", name, err)
		}
	}
	if _, err := GetTemplate(Default); err != nil {
		t.Errorf("default template %q does not resolve: %v", Default, err)
	}
}
