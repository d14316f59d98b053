package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"docfront/internal/form"
	"docfront/internal/notify"
	"docfront/internal/table"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"formatDate": table.FormatDate}).
		ParseFS(templateFS, "templates/page.html"),
)

const msgFillFields = "Fill in the required fields."

var fieldLabels = map[form.Field]string{
	form.FieldName:            "Document name",
	form.FieldURLDocumento:    "Document URL",
	form.FieldNomeSignatario:  "Signer name",
	form.FieldEmailSignatario: "Signer email",
}

type fieldView struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type pageData struct {
	Toasts     []notify.Notification
	FormError  string
	Mode       string
	SelectedID int64
	Fields     []fieldView
	Rows       []table.Row
	Loading    bool
}

// renderPage writes the full page. verr carries field errors from a
// rejected save, if any.
func renderPage(c *fiber.Ctx, fe Frontend, status int, verr *form.ValidationError) error {
	values := fe.Form.Values()
	data := pageData{
		Toasts:  fe.Inbox.Drain(),
		Mode:    fe.Form.Mode().String(),
		Rows:    fe.Table.Rows(),
		Loading: fe.Store.Loading(),
	}
	if doc, ok := fe.Coordinator.Selected(); ok {
		data.SelectedID = doc.ID
	}
	if verr != nil {
		data.FormError = msgFillFields
	}
	for _, f := range form.Fields {
		fv := fieldView{
			Name:  string(f),
			Label: fieldLabels[f],
			Type:  "text",
			Value: values.Get(f),
		}
		if f == form.FieldEmailSignatario {
			fv.Type = "email"
		}
		if verr != nil {
			fv.Error = verr.Fields[f]
		}
		data.Fields = append(data.Fields, fv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func asValidationError(err error) (*form.ValidationError, bool) {
	var verr *form.ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
