package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/vesaa/ragdeck/webui"
)

const fragments = `
{{define "title"}}<h1 class="title">{{.}}</h1>{{end}}
{{define "header"}}<h2 class="header">{{.}}</h2>{{end}}
{{define "subheader"}}<h3 class="subheader">{{.}}</h3>{{end}}
{{define "image"}}<figure class="image{{if .FitColumn}} fit-column{{end}}"><img src="{{.URL}}" alt="{{.Alt}}">{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}
{{define "columns"}}<div class="columns">{{range .}}<div class="column">{{template "image" .}}</div>{{end}}</div>{{end}}
`

var (
	fragmentTmpl = template.Must(template.New("fragments").Parse(fragments))
	layoutTmpl   = template.Must(template.ParseFS(webui.FS, "web/layout.html"))
)

func fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragmentTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// DocumentOptions control the page shell around a Result.
type DocumentOptions struct {
	// BaseURL prefixes the stylesheet link, e.g. "" or "/deck".
	BaseURL string
	// Failure, when set, is shown after the last emitted block.
	Failure error
}

type document struct {
	*Result
	BaseURL string
	Failure string
}

// WriteDocument writes res as a complete HTML page. Equal results produce
// byte-identical documents.
func WriteDocument(w io.Writer, res *Result, opts DocumentOptions) error {
	doc := document{Result: res, BaseURL: strings.TrimRight(opts.BaseURL, "/")}
	if opts.Failure != nil {
		doc.Failure = opts.Failure.Error()
	}
	return layoutTmpl.ExecuteTemplate(w, "layout.html", doc)
}
