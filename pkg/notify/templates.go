package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

type emailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Template]emailTemplate{
	TemplateSignupConfirmation: {
		subject: "Voluntarios: Opportunity Signup Confirmation",
		body: template.Must(template.New("signup_confirmation").Parse(
			`<p>You have successfully signed up for {{.title}} at {{.location}} on {{.startDate}}.</p>`)),
	},
	TemplateOrganizationNewSignup: {
		subject: "Voluntarios: New Volunteer Signup",
		body: template.Must(template.New("organization_new_signup").Parse(
			`<p>A new volunteer ({{.volunteerEmail}}) has signed up for your opportunity: {{.title}}.</p>`)),
	},
	TemplateSignupCancelled: {
		subject: "Voluntarios: Signup Cancelled",
		body: template.Must(template.New("signup_cancelled").Parse(
			`<p>The signup of {{.volunteerEmail}} for {{.title}} on {{.startDate}} has been cancelled.</p>`)),
	},
	TemplateEmailVerification: {
		subject: "Verify Your Email for Voluntarios",
		body: template.Must(template.New("email_verification").Parse(
			`<p>Please click the link to verify your email: <a href="{{.link}}">{{.link}}</a></p>`)),
	},
}

// Render produces the subject and HTML body for msg
func Render(msg Message) (subject, body string, err error) {
	tmpl, ok := templates[msg.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template %q", msg.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, msg.Data); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", msg.Template, err)
	}
	return tmpl.subject, buf.String(), nil
}
