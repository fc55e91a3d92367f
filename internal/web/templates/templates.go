// Package templates renders the admin UI views as templ components.
//
// Components are built directly on templ.ComponentFunc so fragments can be
// composed and streamed the same way generated templates are. All dynamic
// text goes through templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/person"
)

// CellKind selects the renderer for a table cell. Dispatch is by variant,
// not by matching column key strings at render time.
type CellKind int

const (
	CellPlain CellKind = iota
	CellDate
	CellActions
)

// TableColumn describes one column of the persons table.
type TableColumn struct {
	Key   string
	Label string
	Kind  CellKind
}

// personColumns is the render table for the persons listing.
var personColumns = []TableColumn{
	{Key: "firstName", Label: "First Name", Kind: CellPlain},
	{Key: "lastName", Label: "Last Name", Kind: CellPlain},
	{Key: "birthDate", Label: "Birth Date", Kind: CellDate},
	{Key: "income", Label: "Income", Kind: CellPlain},
	{Key: "balance", Label: "Balance", Kind: CellPlain},
	{Key: "actions", Label: "Actions", Kind: CellActions},
}

// cellRenderers maps each variant to its renderer.
var cellRenderers = map[CellKind]func(w io.Writer, col TableColumn, p person.Person) error{
	CellPlain:   renderPlainCell,
	CellDate:    renderDateCell,
	CellActions: renderActionsCell,
}

// PageData carries everything the index page needs.
type PageData struct {
	Persons    []person.Person
	Filter     person.Filter
	LastImport *core.ImportAttempt
	Toasts     []core.Notification
}

func component(f func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return f(w)
	})
}

func esc(s string) string { return templ.EscapeString(s) }

// Layout wraps body in the HTML shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<link rel="stylesheet" href="/static/app.css"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body>
`, esc(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// Index is the persons admin page: toolbar, import dropzone, table, and
// the containers the modal and toast fragments swap into.
func Index(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main class="page">
<header class="page-header">
<h1>The List of Persons</h1>
<div class="toolbar">
<button hx-get="/persons/new" hx-target="#modal" hx-swap="innerHTML">Add Person</button>
<button hx-get="/filters" hx-target="#modal" hx-swap="innerHTML">Filter Persons</button>
<form class="dropzone" hx-post="/import" hx-encoding="multipart/form-data" hx-target="#toasts" hx-swap="innerHTML">
<label>Drag and drop CSV here
<input type="file" name="file" accept=".csv,text/csv" onchange="this.form.requestSubmit()"/>
</label>
</form>
</div>
</header>
<div id="import-status" hx-get="/import/status" hx-trigger="load, every 2s">`); err != nil {
			return err
		}
		if err := ImportStatus(data.LastImport).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div>
<div id="table" hx-get="/persons" hx-trigger="persons-changed from:body">`); err != nil {
			return err
		}
		if err := PersonsTable(data.Persons).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div>
<div id="modal"></div>
<div id="toasts" hx-get="/toasts" hx-trigger="every 2s">`); err != nil {
			return err
		}
		if err := Toasts(data.Toasts).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n</main>\n")
		return err
	})
}

// PersonsTable renders the listing. Each cell is drawn by its column's
// variant renderer.
func PersonsTable(persons []person.Person) templ.Component {
	return component(func(w io.Writer) error {
		if _, err := io.WriteString(w, `<table class="persons" aria-label="The List of Persons">
<thead><tr>`); err != nil {
			return err
		}
		for _, col := range personColumns {
			if _, err := fmt.Fprintf(w, "<th>%s</th>", esc(col.Label)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr></thead>\n<tbody>\n"); err != nil {
			return err
		}

		if len(persons) == 0 {
			if _, err := fmt.Fprintf(w, `<tr><td colspan="%d" class="empty">Pretty empty here, huh? Consider adding a person or two.</td></tr>`+"\n", len(personColumns)); err != nil {
				return err
			}
		}

		for _, p := range persons {
			if _, err := io.WriteString(w, "<tr>"); err != nil {
				return err
			}
			for _, col := range personColumns {
				if err := cellRenderers[col.Kind](w, col, p); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</tr>\n"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

func renderPlainCell(w io.Writer, col TableColumn, p person.Person) error {
	var v string
	switch col.Key {
	case "firstName":
		v = p.FirstName
	case "lastName":
		v = p.LastName
	case "income":
		v = strconv.FormatFloat(p.Income, 'f', 2, 64)
	case "balance":
		v = strconv.FormatFloat(p.Balance, 'f', 2, 64)
	}
	_, err := fmt.Fprintf(w, "<td>%s</td>", esc(v))
	return err
}

func renderDateCell(w io.Writer, _ TableColumn, p person.Person) error {
	v := "unknown"
	if !p.BirthDate.IsZero() {
		v = p.BirthDate.String()
	}
	_, err := fmt.Fprintf(w, "<td>%s</td>", esc(v))
	return err
}

func renderActionsCell(w io.Writer, _ TableColumn, p person.Person) error {
	id := strconv.FormatInt(p.PersonID, 10)
	_, err := fmt.Fprintf(w, `<td class="actions">`+
		`<button title="Edit Person" hx-get="/persons/%s/edit" hx-target="#modal" hx-swap="innerHTML">Edit</button>`+
		`<button title="Delete Person" class="danger" hx-get="/persons/%s/confirm-delete" hx-target="#modal" hx-swap="innerHTML">Delete</button>`+
		`</td>`, id, id)
	return err
}

// PersonModal renders the add/edit form. While busy, the controls and
// dismissal are disabled so the in-flight request cannot be duplicated.
func PersonModal(title string, p person.Person, busy bool) templ.Component {
	return component(func(w io.Writer) error {
		disabled := ""
		if busy {
			disabled = " disabled"
		}
		_, err := fmt.Fprintf(w, `<div class="modal" role="dialog" aria-label="%s">
<h2>%s</h2>
<form hx-post="/persons/save" hx-target="#toasts" hx-swap="innerHTML">
<input type="hidden" name="personId" value="%s"/>
<label>First Name <input name="firstName" value="%s"%s/></label>
<label>Last Name <input name="lastName" value="%s"%s/></label>
<label>Birth Date <input type="date" name="birthDate" value="%s"%s/></label>
<label>Income <input type="number" step="any" name="income" value="%s"%s/></label>
<label>Balance <input type="number" step="any" name="balance" value="%s"%s/></label>
<footer>
<button type="button" onclick="document.getElementById('modal').innerHTML=''"%s>Cancel</button>
<button type="submit"%s>Save</button>
</footer>
</form>
</div>
`,
			esc(title), esc(title),
			personIDValue(p),
			esc(p.FirstName), disabled,
			esc(p.LastName), disabled,
			esc(p.BirthDate.String()), disabled,
			esc(strconv.FormatFloat(p.Income, 'f', -1, 64)), disabled,
			esc(strconv.FormatFloat(p.Balance, 'f', -1, 64)), disabled,
			disabled, disabled,
		)
		return err
	})
}

func personIDValue(p person.Person) string {
	if p.IsNew() {
		return ""
	}
	return strconv.FormatInt(p.PersonID, 10)
}

// ConfirmDeleteModal asks for confirmation before a delete.
func ConfirmDeleteModal(p person.Person, busy bool) templ.Component {
	return component(func(w io.Writer) error {
		disabled := ""
		if busy {
			disabled = " disabled"
		}
		_, err := fmt.Fprintf(w, `<div class="modal" role="dialog" aria-label="Confirm Deletion">
<h2>Confirm Deletion</h2>
<p>Are you sure you want to delete %s?</p>
<form hx-post="/persons/delete" hx-target="#toasts" hx-swap="innerHTML">
<input type="hidden" name="personId" value="%s"/>
<input type="hidden" name="firstName" value="%s"/>
<input type="hidden" name="lastName" value="%s"/>
<footer>
<button type="button" onclick="document.getElementById('modal').innerHTML=''"%s>Cancel</button>
<button type="submit" class="danger"%s>Delete</button>
</footer>
</form>
</div>
`,
			esc(p.DisplayName()),
			personIDValue(p),
			esc(p.FirstName), esc(p.LastName),
			disabled, disabled,
		)
		return err
	})
}

// FilterModal renders the criteria edit buffer, seeded with the active
// filter. Submitting applies the whole set at once.
func FilterModal(f person.Filter) templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="modal" role="dialog" aria-label="Filter Persons">
<h2>Filter Persons</h2>
<form hx-post="/filters" hx-target="#table" hx-swap="innerHTML">
<label>First Name <input name="firstName" value="%s"/></label>
<label>Last Name <input name="lastName" value="%s"/></label>
<label>Birth Date Min <input type="date" name="birthDateMin" value="%s"/></label>
<label>Birth Date Max <input type="date" name="birthDateMax" value="%s"/></label>
<label>Income Min <input type="number" step="any" name="incomeMin" value="%s"/></label>
<label>Income Max <input type="number" step="any" name="incomeMax" value="%s"/></label>
<label>Balance Min <input type="number" step="any" name="balanceMin" value="%s"/></label>
<label>Balance Max <input type="number" step="any" name="balanceMax" value="%s"/></label>
<footer>
<button type="button" onclick="document.getElementById('modal').innerHTML=''">Cancel</button>
<button type="submit">Apply</button>
</footer>
</form>
</div>
`,
			esc(f.FirstName), esc(f.LastName),
			esc(f.BirthDateMin.String()), esc(f.BirthDateMax.String()),
			esc(floatValue(f.IncomeMin)), esc(floatValue(f.IncomeMax)),
			esc(floatValue(f.BalanceMin)), esc(floatValue(f.BalanceMax)),
		)
		return err
	})
}

func floatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Toasts renders queued notifications. Toasts auto-expire client-side.
func Toasts(notes []core.Notification) templ.Component {
	return component(func(w io.Writer) error {
		for _, n := range notes {
			if _, err := fmt.Fprintf(w, `<div class="toast toast-%s" role="status">%s</div>`+"\n",
				esc(string(n.Level)), esc(n.Message)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ErrorAlert renders a failure toast with its support code.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="toast toast-error" role="alert">%s <span class="action">%s</span> <span class="code">(%s)</span></div>`+"\n",
			esc(msg.Message), esc(msg.Action), esc(msg.Code))
		return err
	})
}

// ImportStatus shows the latest import attempt, if any.
func ImportStatus(a *core.ImportAttempt) templ.Component {
	return component(func(w io.Writer) error {
		if a == nil {
			return nil
		}
		detail := ""
		if a.Err != "" {
			detail = ": " + a.Err
		}
		_, err := fmt.Fprintf(w, `<p class="import-status import-%s">Import %s: %s%s</p>`+"\n",
			esc(string(a.Phase)), esc(a.File), esc(string(a.Phase)), esc(detail))
		return err
	})
}
