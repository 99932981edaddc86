package render

import (
	"io"
	"text/template"
)

var summary_template *template.Template

// Summary describes a finished run for the closing message.
type Summary struct {
	RunID        string
	Status       string
	SequenceFile string
	ReportPath   string
	TablePath    string
	InputSeqs    int
	Rows         int
	Warnings     []string
}

func init() {
	mainTmpl := `{{ if .Warnings }}{{ range .Warnings }}warning: {{ . }}
{{ end }}{{ end }}{{ .Rows }} of {{ .InputSeqs }} sequence(s) from {{ .SequenceFile }} summarised (run {{ .RunID }}, {{ .Status }})
ppp-onestep result saved to {{ .TablePath }}
`
	summary_template = template.Must(template.New("summary").Parse(mainTmpl))
}

// RenderSummary writes the end-of-run confirmation message.
func RenderSummary(w io.Writer, data Summary) error {
	return summary_template.Execute(w, data)
}
