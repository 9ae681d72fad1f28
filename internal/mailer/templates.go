package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/Amadorfl72/mentorhub/types"
)

// Email is a rendered message ready for the provider.
type Email struct {
	Subject string
	HTML    string
}

// FieldChange is a before/after pair for one tracked session field.
// Field is one of "title", "description", "scheduled_time",
// "max_attendees"; it is translated to a label at render time.
type FieldChange struct {
	Field  string
	Before string
	After  string
}

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

// FormatTime renders a session time the way the email templates do.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// NormalizeLanguage maps a stored language preference to one of the
// supported copy languages. Unknown values resolve to English.
func NormalizeLanguage(lang string) string {
	switch lang {
	case types.LangSpanish, types.LangFrench:
		return lang
	default:
		return types.LangEnglish
	}
}

// copyTable holds the per-language copy blocks, keyed by
// (language, template key). Template selection is a pure function of
// the message kind and the recipient's language.
var copyTable = map[string]map[string]string{
	types.LangEnglish: {
		"update.subject": "UPDATE",
		"update.heading": "Session updated",
		"update.intro":   "A session you are enrolled in has changed. Here is what is different:",
		"update.field":   "Field",
		"update.before":  "Before",
		"update.after":   "After",
		"cancel.subject": "CANCELLED",
		"cancel.heading": "Session cancelled",
		"cancel.intro":   "A session you were enrolled in has been cancelled:",
		"enrol.subject":  "Enrolment confirmed",
		"enrol.heading":  "You're in!",
		"enrol.intro":    "Your enrolment has been confirmed for the following session:",
		"label.title":    "Title",
		"label.desc":     "Description",
		"label.time":     "Date",
		"label.seats":    "Max attendees",
		"label.mentor":   "Mentor",
		"common.button":  "Open MentorHub",
		"common.signoff": "The MentorHub team",
	},
	types.LangSpanish: {
		"update.subject": "ACTUALIZACIÓN",
		"update.heading": "Sesión actualizada",
		"update.intro":   "Una sesión en la que estás inscrito ha cambiado. Esto es lo que es diferente:",
		"update.field":   "Campo",
		"update.before":  "Antes",
		"update.after":   "Después",
		"cancel.subject": "CANCELADA",
		"cancel.heading": "Sesión cancelada",
		"cancel.intro":   "Una sesión en la que estabas inscrito ha sido cancelada:",
		"enrol.subject":  "Inscripción confirmada",
		"enrol.heading":  "¡Ya estás dentro!",
		"enrol.intro":    "Tu inscripción ha sido confirmada para la siguiente sesión:",
		"label.title":    "Título",
		"label.desc":     "Descripción",
		"label.time":     "Fecha",
		"label.seats":    "Plazas máximas",
		"label.mentor":   "Mentor",
		"common.button":  "Abrir MentorHub",
		"common.signoff": "El equipo de MentorHub",
	},
	types.LangFrench: {
		"update.subject": "MISE À JOUR",
		"update.heading": "Session mise à jour",
		"update.intro":   "Une session à laquelle vous êtes inscrit a changé. Voici ce qui est différent :",
		"update.field":   "Champ",
		"update.before":  "Avant",
		"update.after":   "Après",
		"cancel.subject": "ANNULÉE",
		"cancel.heading": "Session annulée",
		"cancel.intro":   "Une session à laquelle vous étiez inscrit a été annulée :",
		"enrol.subject":  "Inscription confirmée",
		"enrol.heading":  "Vous êtes inscrit !",
		"enrol.intro":    "Votre inscription a été confirmée pour la session suivante :",
		"label.title":    "Titre",
		"label.desc":     "Description",
		"label.time":     "Date",
		"label.seats":    "Places maximum",
		"label.mentor":   "Mentor",
		"common.button":  "Ouvrir MentorHub",
		"common.signoff": "L'équipe MentorHub",
	},
}

func text(lang, key string) string {
	if block, ok := copyTable[NormalizeLanguage(lang)]; ok {
		if value, ok := block[key]; ok {
			return value
		}
	}
	return copyTable[types.LangEnglish][key]
}

// fieldLabel translates a FieldChange.Field key.
func fieldLabel(lang, field string) string {
	switch field {
	case "title":
		return text(lang, "label.title")
	case "description":
		return text(lang, "label.desc")
	case "scheduled_time":
		return text(lang, "label.time")
	case "max_attendees":
		return text(lang, "label.seats")
	default:
		return field
	}
}

// BuildSessionCreated renders the creation announcement. The original
// product sends this one in English to everyone, regardless of the
// recipient's language preference.
func BuildSessionCreated(s types.Session, mentorName, sessionURL string) Email {
	data := struct {
		Title        string
		Description  string
		MentorName   string
		Time         string
		MaxAttendees int
		SessionURL   string
	}{
		Title:        s.Title,
		Description:  s.Description,
		MentorName:   mentorName,
		Time:         FormatTime(s.ScheduledTime),
		MaxAttendees: s.MaxAttendees,
		SessionURL:   sessionURL,
	}
	return Email{
		Subject: "New Session In MentorHub!",
		HTML:    render(createdTemplate, data),
	}
}

// BuildSessionUpdated renders the update notice with a before/after
// table of the changed fields, in the recipient's language.
func BuildSessionUpdated(lang string, s types.Session, changes []FieldChange) Email {
	type changeRow struct {
		Label  string
		Before string
		After  string
	}
	rows := make([]changeRow, 0, len(changes))
	for _, change := range changes {
		rows = append(rows, changeRow{
			Label:  fieldLabel(lang, change.Field),
			Before: change.Before,
			After:  change.After,
		})
	}
	data := struct {
		Heading   string
		Intro     string
		FieldCol  string
		BeforeCol string
		AfterCol  string
		Title     string
		Changes   []changeRow
		Signoff   string
	}{
		Heading:   text(lang, "update.heading"),
		Intro:     text(lang, "update.intro"),
		FieldCol:  text(lang, "update.field"),
		BeforeCol: text(lang, "update.before"),
		AfterCol:  text(lang, "update.after"),
		Title:     s.Title,
		Changes:   rows,
		Signoff:   text(lang, "common.signoff"),
	}
	return Email{
		Subject: fmt.Sprintf("%s: %s", text(lang, "update.subject"), s.Title),
		HTML:    render(updatedTemplate, data),
	}
}

// BuildSessionCancelled renders the cancellation notice in the
// recipient's language, with the session's original details.
func BuildSessionCancelled(lang string, s types.Session, mentorName string) Email {
	data := struct {
		Heading     string
		Intro       string
		TitleLabel  string
		DescLabel   string
		MentorLabel string
		TimeLabel   string
		Title       string
		Description string
		MentorName  string
		Time        string
		Signoff     string
	}{
		Heading:     text(lang, "cancel.heading"),
		Intro:       text(lang, "cancel.intro"),
		TitleLabel:  text(lang, "label.title"),
		DescLabel:   text(lang, "label.desc"),
		MentorLabel: text(lang, "label.mentor"),
		TimeLabel:   text(lang, "label.time"),
		Title:       s.Title,
		Description: s.Description,
		MentorName:  mentorName,
		Time:        FormatTime(s.ScheduledTime),
		Signoff:     text(lang, "common.signoff"),
	}
	return Email{
		Subject: fmt.Sprintf("%s: %s", text(lang, "cancel.subject"), s.Title),
		HTML:    render(cancelledTemplate, data),
	}
}

// BuildEnrollmentConfirmed renders the enrolment confirmation in the
// recipient's language.
func BuildEnrollmentConfirmed(lang string, s types.Session, mentorName, sessionURL string) Email {
	data := struct {
		Heading     string
		Intro       string
		TitleLabel  string
		MentorLabel string
		TimeLabel   string
		Title       string
		MentorName  string
		Time        string
		SessionURL  string
		Button      string
		Signoff     string
	}{
		Heading:     text(lang, "enrol.heading"),
		Intro:       text(lang, "enrol.intro"),
		TitleLabel:  text(lang, "label.title"),
		MentorLabel: text(lang, "label.mentor"),
		TimeLabel:   text(lang, "label.time"),
		Title:       s.Title,
		MentorName:  mentorName,
		Time:        FormatTime(s.ScheduledTime),
		SessionURL:  sessionURL,
		Button:      text(lang, "common.button"),
		Signoff:     text(lang, "common.signoff"),
	}
	return Email{
		Subject: fmt.Sprintf("%s: %s", text(lang, "enrol.subject"), s.Title),
		HTML:    render(confirmedTemplate, data),
	}
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

var createdTemplate = template.Must(template.New("created").Parse(`<h1>New Session In MentorHub!</h1>
<p>Dear team,</p>
<p>A new session has been created in MentorHub. Check the details and enrol a.s.a.p if you're interested. There are limited seats!!</p>
<div style="margin: 20px 0; padding: 15px; border: 1px solid #ddd; border-radius: 5px;">
    <h2>{{.Title}}</h2>
    <p><strong>Description:</strong> {{.Description}}</p>
    <p><strong>Created by:</strong> {{.MentorName}}</p>
    <p><strong>Date:</strong> {{.Time}}</p>
    <p><strong>Max attendees:</strong> {{.MaxAttendees}}</p>
</div>
<p><a href="{{.SessionURL}}" style="display: inline-block; padding: 10px 20px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px;">Bring me to MentorHub</a></p>
`))

var updatedTemplate = template.Must(template.New("updated").Parse(`<h1>{{.Heading}}</h1>
<p>{{.Intro}}</p>
<h2>{{.Title}}</h2>
<table style="border-collapse: collapse; margin: 20px 0;">
    <tr>
        <th style="border: 1px solid #ddd; padding: 8px; text-align: left;">{{.FieldCol}}</th>
        <th style="border: 1px solid #ddd; padding: 8px; text-align: left;">{{.BeforeCol}}</th>
        <th style="border: 1px solid #ddd; padding: 8px; text-align: left;">{{.AfterCol}}</th>
    </tr>
{{range .Changes}}    <tr>
        <td style="border: 1px solid #ddd; padding: 8px;"><strong>{{.Label}}</strong></td>
        <td style="border: 1px solid #ddd; padding: 8px;">{{.Before}}</td>
        <td style="border: 1px solid #ddd; padding: 8px;">{{.After}}</td>
    </tr>
{{end}}</table>
<p>{{.Signoff}}</p>
`))

var cancelledTemplate = template.Must(template.New("cancelled").Parse(`<h1>{{.Heading}}</h1>
<p>{{.Intro}}</p>
<div style="margin: 20px 0; padding: 15px; border: 1px solid #ddd; border-radius: 5px;">
    <p><strong>{{.TitleLabel}}:</strong> {{.Title}}</p>
    <p><strong>{{.DescLabel}}:</strong> {{.Description}}</p>
    <p><strong>{{.MentorLabel}}:</strong> {{.MentorName}}</p>
    <p><strong>{{.TimeLabel}}:</strong> {{.Time}}</p>
</div>
<p>{{.Signoff}}</p>
`))

var confirmedTemplate = template.Must(template.New("confirmed").Parse(`<h1>{{.Heading}}</h1>
<p>{{.Intro}}</p>
<div style="margin: 20px 0; padding: 15px; border: 1px solid #ddd; border-radius: 5px;">
    <p><strong>{{.TitleLabel}}:</strong> {{.Title}}</p>
    <p><strong>{{.MentorLabel}}:</strong> {{.MentorName}}</p>
    <p><strong>{{.TimeLabel}}:</strong> {{.Time}}</p>
</div>
<p><a href="{{.SessionURL}}" style="display: inline-block; padding: 10px 20px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px;">{{.Button}}</a></p>
<p>{{.Signoff}}</p>
`))
