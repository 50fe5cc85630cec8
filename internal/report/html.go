package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sanket-telunagi/pyautos/internal/logging"
	"github.com/sanket-telunagi/pyautos/internal/runner"
)

// MarkerToken is the placeholder inside the page template that is replaced
// with the rendered results table.
const MarkerToken = "{{table}}"

// tableRow is the view model for one report line.
type tableRow struct {
	Name   string
	Status runner.Status
	Code   int
	Body   string
	Class  string
}

// tableTemplate renders the Result rows. html/template escapes the raw
// response bodies so arbitrary payloads cannot break the page.
var tableTemplate = template.Must(template.New("table").Parse(`<table border="1" class="dataframe">
  <thead>
    <tr>
      <th>API Name</th>
      <th>Status</th>
      <th>Response Code</th>
      <th>Response</th>
    </tr>
  </thead>
  <tbody>
{{- range . }}
    <tr class="status-{{ .Class }}">
      <td>{{ .Name }}</td>
      <td>{{ .Status }}</td>
      <td>{{ .Code }}</td>
      <td>{{ .Body }}</td>
    </tr>
{{- end }}
  </tbody>
</table>`))

// Writer renders the per-run HTML report and writes it under the result
// directory with a timestamped, per-run unique name.
type Writer struct {
	templateFile string
	dir          string
	now          func() time.Time
}

// NewWriter creates a report writer. templateFile may be empty, in which
// case the embedded default page template is used; dir empty means the
// current directory.
func NewWriter(templateFile, dir string) *Writer {
	return &Writer{
		templateFile: templateFile,
		dir:          dir,
		now:          time.Now,
	}
}

// Render produces the final page HTML: the results table injected into the
// page template at the marker token.
func (w *Writer) Render(results []runner.Result) (string, error) {
	rows := make([]tableRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, tableRow{
			Name:   res.Name,
			Status: res.Status,
			Code:   res.Code,
			Body:   res.Body,
			Class:  strings.ToLower(string(res.Status)),
		})
	}
	var table strings.Builder
	if err := tableTemplate.Execute(&table, rows); err != nil {
		return "", fmt.Errorf("failed to render results table: %w", err)
	}
	page := w.loadPageTemplate()
	return strings.ReplaceAll(page, MarkerToken, table.String()), nil
}

// Write stores the rendered page as sanity_report_<timestamp>.html under the
// result directory, creating the directory when needed, and returns the
// written path.
func (w *Writer) Write(html string) (string, error) {
	dir := w.dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create result directory '%s': %w", dir, err)
	}
	name := fmt.Sprintf("sanity_report_%s.html", w.now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write report '%s': %w", path, err)
	}
	logging.Logf(logging.Info, "Report written to %s", path)
	return path, nil
}

// loadPageTemplate reads the configured template file, falling back to the
// embedded default when the file is unset, unreadable, or missing the
// marker token. The fallback keeps report generation alive so a bad
// template never costs a run its report.
func (w *Writer) loadPageTemplate() string {
	if w.templateFile == "" {
		return defaultPageTemplate
	}
	data, err := os.ReadFile(w.templateFile)
	if err != nil {
		logging.Logf(logging.Warning, "Could not read HTML template '%s': %v. Using the built-in template.", w.templateFile, err)
		return defaultPageTemplate
	}
	page := string(data)
	if !strings.Contains(page, MarkerToken) {
		logging.Logf(logging.Warning, "HTML template '%s' does not contain the %s marker. Using the built-in template.", w.templateFile, MarkerToken)
		return defaultPageTemplate
	}
	return page
}

// defaultPageTemplate is the self-contained fallback page. The {{table}}
// marker is replaced with the rendered results table.
const defaultPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>API Validation Report</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #212529; }
  h1 { font-size: 20px; }
  table.dataframe { border-collapse: collapse; width: 100%; }
  table.dataframe th, table.dataframe td { border: 1px solid #dee2e6; padding: 6px 10px; text-align: left; vertical-align: top; font-size: 13px; }
  table.dataframe th { background: #f8f9fa; }
  table.dataframe td { word-break: break-all; }
  tr.status-pass td:nth-child(2) { color: #198754; font-weight: bold; }
  tr.status-fail td:nth-child(2) { color: #dc3545; font-weight: bold; }
  tr.status-error td:nth-child(2) { color: #fd7e14; font-weight: bold; }
</style>
</head>
<body>
<h1>API Validation Report</h1>
{{table}}
</body>
</html>
`
