package sendbookingnotification

import (
	"fmt"
	"strings"
	"text/template"
)

type message struct {
	subject *template.Template
	body    *template.Template
	sms     *template.Template
}

var messages = map[string]message{
	KindBooked: parse(KindBooked,
		"New assignment on {{.Date}}",
		"Hello {{.GuardName}},\n\nYou have been assigned to booking {{.BookingID}} on {{.Date}}{{if .Slot}} from {{.Slot}}{{end}}."+
			"{{if .ClientName}}\nClient: {{.ClientName}}{{end}}{{if .PickupAddress}}\nPickup: {{.PickupAddress}}{{end}}\n",
		"Assigned: booking {{.BookingID}} on {{.Date}}{{if .Slot}} {{.Slot}}{{end}}",
	),
	KindCancelled: parse(KindCancelled,
		"Assignment cancelled for {{.Date}}",
		"Hello {{.GuardName}},\n\nBooking {{.BookingID}} on {{.Date}}{{if .Slot}} ({{.Slot}}){{end}} has been cancelled. The slot is free again.\n",
		"Cancelled: booking {{.BookingID}} on {{.Date}}",
	),
	KindReassigned: parse(KindReassigned,
		"Reassigned booking on {{.Date}}",
		"Hello {{.GuardName}},\n\nBooking {{.BookingID}} on {{.Date}}{{if .Slot}} from {{.Slot}}{{end}} has been reassigned to you after the original guard became unavailable."+
			"{{if .PickupAddress}}\nPickup: {{.PickupAddress}}{{end}}\n",
		"Reassigned to you: booking {{.BookingID}} on {{.Date}}{{if .Slot}} {{.Slot}}{{end}}",
	),
}

func parse(kind, subject, body, sms string) message {
	return message{
		subject: template.Must(template.New(kind + ".subject").Parse(subject)),
		body:    template.Must(template.New(kind + ".body").Parse(body)),
		sms:     template.Must(template.New(kind + ".sms").Parse(sms)),
	}
}

type templateData struct {
	GuardName     string
	BookingID     string
	Date          string
	Slot          string
	ClientName    string
	PickupAddress string
}

type rendered struct {
	Subject string
	Body    string
	SMS     string
}

func render(kind string, data templateData) (rendered, error) {
	m, ok := messages[kind]
	if !ok {
		return rendered{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var out rendered
	for _, part := range []struct {
		tpl *template.Template
		dst *string
	}{
		{m.subject, &out.Subject},
		{m.body, &out.Body},
		{m.sms, &out.SMS},
	} {
		var sb strings.Builder
		if err := part.tpl.Execute(&sb, data); err != nil {
			return rendered{}, fmt.Errorf("render %s: %w", part.tpl.Name(), err)
		}
		*part.dst = sb.String()
	}
	return out, nil
}
