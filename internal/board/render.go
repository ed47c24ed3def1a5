// internal/board/render.go
package board

import (
	"html/template"
	"io"
)

// TableID is the id of the container rows are rendered into.
const TableID = "data-table"

var tmpl = template.Must(template.New("board").Parse(`
{{- define "rows" -}}
{{- range .Records}}
<tr class="{{.RowClass}}"><td>{{.Time}}</td>{{range .Counters}}<td>{{.Value}}</td>{{end}}</tr>
{{- end}}
{{- end -}}

{{- define "table" -}}
<table id="{{.TableID}}">
<thead><tr><th>time</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{template "rows" .}}
</tbody>
</table>
{{- end -}}
`))

type view struct {
	TableID string
	Columns []string
	Records []Record
}

func (b *Board) view() view {
	return view{
		TableID: TableID,
		Columns: b.rule.Columns(),
		Records: b.Records(),
	}
}

// Render writes one table row per record, oldest first.
func (b *Board) Render(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "rows", b.view())
}

// RenderTable writes the full table including the header row.
func (b *Board) RenderTable(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "table", b.view())
}
