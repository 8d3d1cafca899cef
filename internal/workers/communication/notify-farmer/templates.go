package notifyfarmer

import (
	"fmt"
	"strings"
)

type template struct {
	Subject string
	Body    string
	SMS     string
}

var templates = map[string]template{
	TypeSchemesMatched: {
		Subject: "{{schemeCount}} government schemes match your farm profile",
		Body: "Namaste,\n\n{{schemeCount}} schemes match your profile. Your best match is {{topScheme}} " +
			"with support of {{topAmount}}.\n\nKeep your Aadhaar Card, land records and income certificate " +
			"ready before applying.",
		SMS: "{{schemeCount}} schemes match your farm. Top: {{topScheme}} ({{topAmount}}).",
	},
	TypeDocumentsPending: {
		Subject: "Documents needed to apply for {{topScheme}}",
		Body: "Namaste,\n\nYour application status is: {{readinessStatus}}.\nStill missing: {{missingDocuments}}." +
			"\n\nOnce these are ready you can apply for {{topScheme}} ({{topAmount}}).",
		SMS: "{{readinessStatus}}. Missing: {{missingDocuments}}. Top scheme: {{topScheme}}.",
	},
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		switch typed := v.(type) {
		case string:
			value = typed
		case int:
			value = fmt.Sprintf("%d", typed)
		case []string:
			value = strings.Join(typed, ", ")
		case nil:
		default:
			value = fmt.Sprintf("%v", typed)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
