package gdext

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rotisserie/eris"
)

// Template names. The built-in versions live in templates/ and can be
// replaced file by file through BuildConfig.TemplatesDir.
const (
	GDNLibTemplate     = "gdnlib.tmpl"
	GDNSTemplate       = "gdns.tmpl"
	CppLibraryTemplate = "gdlibrary.cpp.tmpl"
	SConsTemplate      = "SConstruct.tmpl"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

var templateNames = []string{GDNLibTemplate, GDNSTemplate, CppLibraryTemplate, SConsTemplate}

// TemplateSet holds the parsed templates for a session.
type TemplateSet struct {
	templates map[string]*template.Template
}

// LoadTemplates parses the built-in templates, preferring files with the
// same name in overrideDir when it is set.
func LoadTemplates(overrideDir string) (*TemplateSet, error) {
	set := &TemplateSet{templates: make(map[string]*template.Template, len(templateNames))}

	for _, name := range templateNames {
		source, err := builtinTemplates.ReadFile("templates/" + name)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read built-in template %s", name)
		}

		if overrideDir != "" {
			custom, readErr := os.ReadFile(filepath.Join(overrideDir, name))
			switch {
			case readErr == nil:
				source = custom
			case !os.IsNotExist(readErr):
				return nil, eris.Wrapf(readErr, "failed to read template override %s", name)
			}
		}

		tmpl, err := template.New(name).Option("missingkey=error").Parse(string(source))
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse template %s", name)
		}
		set.templates[name] = tmpl
	}

	return set, nil
}

// Render executes the named template against data.
func (t *TemplateSet) Render(name string, data any) ([]byte, error) {
	tmpl, ok := t.templates[name]
	if !ok {
		return nil, eris.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, eris.Wrapf(err, "failed to render %s", name)
	}

	return buf.Bytes(), nil
}
