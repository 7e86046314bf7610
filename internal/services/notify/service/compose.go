package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	dom "datapulse/internal/services/notify/domain"
)

// only line breaks survive in the html part
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br")
	return p
}()

// ComposeSubmission builds the new submission mail for projectName
func ComposeSubmission(to, projectName string, data json.RawMessage) dom.Message {
	text := fmt.Sprintf(`Hello,

You have received a new submission for your project: %s.

Data:
%s

View more details in your dashboard.

Best regards,
DataPulse Team
`, projectName, pretty(data))

	return dom.Message{
		To:      to,
		Subject: "New Submission: " + projectName,
		Text:    text,
		HTML:    toHTML(text),
	}
}

func pretty(data json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// toHTML escapes text and turns newlines into <br>
func toHTML(text string) string {
	escaped := html.EscapeString(text)
	return htmlPolicy.Sanitize(strings.ReplaceAll(escaped, "\n", "<br>"))
}
