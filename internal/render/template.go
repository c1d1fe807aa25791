package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"cv-builder/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateNames is the closed set of template families, fixed at build time.
var TemplateNames = []string{"classic", "sidebar", "onyx"}

// ErrUnknownTemplate is returned for template names outside the closed set.
var ErrUnknownTemplate = fmt.Errorf("unknown template")

var funcs = template.FuncMap{
	"dateRange":  DateRange,
	"pct":        SkillPercent,
	"paragraphs": Paragraphs,
	"join":       strings.Join,
	"href":       Href,
	"urlLabel":   URLLabel,
	"safeURL":    func(s string) template.URL { return template.URL(s) },
	"until": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
}

var registry = mustParseAll()

func mustParseAll() map[string]*template.Template {
	out := make(map[string]*template.Template, len(TemplateNames))
	for _, name := range TemplateNames {
		tpl, err := template.New(name + ".html").Funcs(funcs).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			panic(fmt.Sprintf("render: parsing template %s: %v", name, err))
		}
		out[name] = tpl
	}
	return out
}

// Names returns the template names in a stable order.
func Names() []string {
	out := append([]string(nil), TemplateNames...)
	sort.Strings(out)
	return out
}

// Known reports whether name is part of the closed template set.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// HTML renders the screen-target variant of the document's current template.
// It is deterministic: identical input produces byte-identical output.
func HTML(doc *model.Document) (string, error) {
	return HTMLTemplate(doc.CurrentTemplate, doc)
}

// HTMLTemplate renders doc through the named template family.
func HTMLTemplate(name string, doc *model.Document) (string, error) {
	tpl, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	ctx := BuildContext(doc)
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}
