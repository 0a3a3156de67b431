package views

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"io/fs"

	"github.com/yuin/goldmark"

	"bikeshare-dashboard/internal/modules/report/types"
)

var pageTmpl *template.Template

var funcs = template.FuncMap{
	"markdown": markdown,
	"svg":      func(b []byte) template.HTML { return template.HTML(b) },
}

// loadTemplatesFromFS loads the report templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.New("").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	return err
}

// LoadTemplates loads the embedded report templates. Call during startup
// before serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// markdown converts a text block to HTML. Raw HTML in the source is dropped.
func markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderPage writes the report page. Buffered so a template error never
// leaves half a document on w.
func RenderPage(w io.Writer, page *types.Page) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page.html", page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
