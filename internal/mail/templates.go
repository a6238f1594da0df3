package mail

import (
	"bytes"
	"github.com/pkg/errors"
	"text/template"
)

type Template string

const (
	TemplateWelcome         Template = "welcome"
	TemplateTeamRegistered  Template = "team_registered"
	TemplatePaymentReceived Template = "payment_received"
	TemplateReviewResult    Template = "review_result"
)

var subjects = map[Template]string{
	TemplateWelcome:         "Welcome to Makarapreneur",
	TemplateTeamRegistered:  "Team registration received",
	TemplatePaymentReceived: "Payment received",
	TemplateReviewResult:    "Submission review result",
}

var templates = template.Must(template.New("mail").Parse(`
{{define "welcome"}}Hi {{.Name}},

Your Makarapreneur account is ready. Sign in with {{.Email}} to register a team,
join the networking night or apply for the business class.

See you there!
{{end}}

{{define "team_registered"}}Hi {{.LeaderName}},

Team "{{.TeamName}}" is registered for {{.Competition}}.
Current stage: {{.Stage}}.
{{if .Fee}}The {{.Stage}} fee is IDR {{.Fee}}. Create an invoice from your dashboard to pay it.
{{end}}
Good luck!
{{end}}

{{define "payment_received"}}Hi {{.LeaderName}},

We received IDR {{.Amount}} for team "{{.TeamName}}" ({{.Stage}} stage).
Payment reference: {{.PaymentID}}.
{{end}}

{{define "review_result"}}Hi {{.LeaderName}},

The {{.Stage}} submission of team "{{.TeamName}}" has been reviewed.
{{if .Passed}}Congratulations, your team passed.{{if .NextStage}} You advance to the {{.NextStage}} stage.{{else}} Thank you for completing the competition!{{end}}{{else}}Unfortunately your team did not pass this stage. Thank you for taking part.{{end}}
{{end}}
`))

type WelcomeData struct {
	Name  string
	Email string
}

type TeamRegisteredData struct {
	LeaderName  string
	TeamName    string
	Competition string
	Stage       string
	Fee         int64
}

type PaymentReceivedData struct {
	LeaderName string
	TeamName   string
	Stage      string
	Amount     int64
	PaymentID  string
}

type ReviewResultData struct {
	LeaderName string
	TeamName   string
	Stage      string
	Passed     bool
	NextStage  string
}

// Render executes the named template and returns the subject and body.
func Render(name Template, data any) (string, string, error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", errors.Errorf("unknown mail template %q", name)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(name), data); err != nil {
		return "", "", errors.Wrapf(err, "render %s", name)
	}
	return subject, buf.String(), nil
}
