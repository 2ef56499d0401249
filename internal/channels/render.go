package channels

import (
	"fmt"
	"html"
	"strings"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
)

// RenderSubject builds the localized email subject for an alert
func RenderSubject(loc *Locale, a *alert.Alert, animal *herd.Animal) string {
	return fmt.Sprintf("%s: %s - %s", loc.SubjectPrefix, loc.CategoryLabel(a.Category), animal.Name)
}

// RenderText builds the localized plain-text body used for WhatsApp and SMS.
// The free-text alert message is passed through untranslated.
func RenderText(loc *Locale, a *alert.Alert, animal *herd.Animal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 *%s* 🚨\n\n", loc.AlertBanner)
	fmt.Fprintf(&b, "*%s* (%s)\n", loc.CategoryLabel(a.Category), loc.SeverityLabel(a.Severity))
	fmt.Fprintf(&b, "%s: %s", loc.AnimalLabel, animal.Name)
	if animal.TagNumber != "" {
		fmt.Fprintf(&b, " (%s: %s)", loc.TagLabel, animal.TagNumber)
	}
	b.WriteString("\n\n")
	b.WriteString(a.Message)

	return b.String()
}

// RenderEmailHTML builds the localized HTML email body. insight is an
// optional care-advice paragraph appended below the alert message.
func RenderEmailHTML(loc *Locale, a *alert.Alert, animal *herd.Animal, insight string) string {
	severityColor := map[string]string{
		alert.SeverityHigh:   "#c0392b",
		alert.SeverityMedium: "#e67e22",
		alert.SeverityLow:    "#27ae60",
	}[a.Severity]
	if severityColor == "" {
		severityColor = "#7f8c8d"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">`)
	fmt.Fprintf(&b, `<div style="background:%s;color:#fff;padding:16px;border-radius:4px 4px 0 0">`, severityColor)
	fmt.Fprintf(&b, `<h2 style="margin:0">%s</h2>`, html.EscapeString(loc.CategoryLabel(a.Category)))
	fmt.Fprintf(&b, `<p style="margin:4px 0 0">%s</p>`, html.EscapeString(loc.SeverityLabel(a.Severity)))
	b.WriteString(`</div>`)
	b.WriteString(`<div style="padding:16px;border:1px solid #ddd;border-top:none">`)
	fmt.Fprintf(&b, `<p>%s,</p>`, html.EscapeString(loc.Greeting))
	fmt.Fprintf(&b, `<p><strong>%s:</strong> %s`, html.EscapeString(loc.AnimalLabel), html.EscapeString(animal.Name))
	if animal.TagNumber != "" {
		fmt.Fprintf(&b, ` (%s: %s)`, html.EscapeString(loc.TagLabel), html.EscapeString(animal.TagNumber))
	}
	b.WriteString(`</p>`)
	fmt.Fprintf(&b, `<p style="font-size:16px">%s</p>`, html.EscapeString(a.Message))
	if insight != "" {
		fmt.Fprintf(&b, `<h3 style="margin-bottom:4px">%s</h3>`, html.EscapeString(loc.AdviceLabel))
		fmt.Fprintf(&b, `<p style="color:#555">%s</p>`, html.EscapeString(insight))
	}
	fmt.Fprintf(&b, `<hr style="border:none;border-top:1px solid #eee"><p style="color:#999;font-size:12px">%s</p>`,
		html.EscapeString(loc.Footer))
	b.WriteString(`</div></div>`)

	return b.String()
}
