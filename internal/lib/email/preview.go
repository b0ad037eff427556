package email

// PreviewData holds sample template data for rendering templates locally.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"Name":     "Ada",
		"Username": "ada.lovelace",
	},
}

// Preview renders name with its PreviewData.
func Preview(name Template) (string, error) {
	return Render(name, PreviewData[name])
}
