package pipeline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/score"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const htmlStyle = `body{font-family:sans-serif;margin:2em}
.lists{display:flex;gap:2em}
.list{flex:1;border:1px solid #ccc;border-radius:4px;padding:.5em;font-family:monospace}
.line{white-space:pre}
.invalid{color:#999}
mark{background:rgba(252,165,165,.6)}
.warning{border:1px solid #fde68a;padding:.5em;border-radius:4px}`

// RenderHTML writes the report as a standalone HTML page to path
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return writeFileWith(path, func(w io.Writer) error {
		return r.WriteHTML(w, report)
	})
}

// WriteHTML writes the HTML report; matched names are wrapped in <mark>
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	res := report.Result

	title := "Account Comparison"
	if report.Name != "" {
		title += ": " + report.Name
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(withText(element(atom.Title), title))
	head.AppendChild(withText(element(atom.Style), htmlStyle))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), title))

	stats := element(atom.Table)
	addRow(stats, "Coverage", fmt.Sprintf("%d/100 (%s)", report.Summary.Index, report.Summary.Confidence))
	addRow(stats, "Matched", fmt.Sprintf("%d distinct, %d lines", res.Matched.Len(), res.MatchCount))
	addRow(stats, "Missed accounts", strconv.Itoa(len(res.Missing)))
	addRow(stats, "Extra accounts", strconv.Itoa(len(res.Extra)))
	addRow(stats, "Invalid lines", fmt.Sprintf("%d source, %d target", res.Source.Invalid, res.Target.Invalid))
	body.AppendChild(stats)

	if warning := score.DuplicateWarning(res); warning != "" {
		box := element(atom.Div, attr("class", "warning"))
		box.AppendChild(withText(element(atom.Strong), warning))
		box.AppendChild(htmlDuplicates("In Logged-in Accounts:", res.LeftDuplicates()))
		box.AppendChild(htmlDuplicates("In Wished Login Accounts:", res.RightDuplicates()))
		body.AppendChild(box)
	}

	lists := element(atom.Div, attr("class", "lists"))
	lists.AppendChild(htmlSide(SourceLabel, report.SourceLines, res.Source.Records, res.Matched))
	lists.AppendChild(htmlSide(TargetLabel, report.TargetLines, res.Target.Records, res.Matched))
	body.AppendChild(lists)

	body.AppendChild(htmlNames("Missed Accounts", res.Missing))
	body.AppendChild(htmlNames("Extra Accounts", res.Extra))

	return html.Render(w, doc)
}

func htmlSide(label string, lines []string, records []model.Record, matched model.Set) *html.Node {
	div := element(atom.Div, attr("class", "list"))
	div.AppendChild(withText(element(atom.H2), label))

	for i, line := range lines {
		class := "line"
		if i < len(records) && !records[i].Valid() {
			class = "line invalid"
		}
		row := element(atom.Div, attr("class", class))

		pre, mid, post, ok := splitHighlight(line, i, records, matched)
		if !ok {
			row.AppendChild(text(line))
		} else {
			if pre != "" {
				row.AppendChild(text(pre))
			}
			row.AppendChild(withText(element(atom.Mark), mid))
			if post != "" {
				row.AppendChild(text(post))
			}
		}
		div.AppendChild(row)
	}
	return div
}

func htmlNames(heading string, names []string) *html.Node {
	section := element(atom.Section)
	section.AppendChild(withText(element(atom.H2), fmt.Sprintf("%s (%d)", heading, len(names))))
	list := element(atom.Ul)
	for _, name := range names {
		list.AppendChild(withText(element(atom.Li), name))
	}
	section.AppendChild(list)
	return section
}

func htmlDuplicates(label string, dupes model.DuplicateMap) *html.Node {
	div := element(atom.Div)
	if len(dupes) == 0 {
		return div
	}
	div.AppendChild(withText(element(atom.P), label))
	list := element(atom.Ul)
	for _, name := range dupes.Names() {
		list.AppendChild(withText(element(atom.Li), fmt.Sprintf("%q appears %d times", name, dupes[name])))
	}
	div.AppendChild(list)
	return div
}

func addRow(table *html.Node, key, value string) {
	tr := element(atom.Tr)
	tr.AppendChild(withText(element(atom.Th), key))
	tr.AppendChild(withText(element(atom.Td), value))
	table.AppendChild(tr)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
