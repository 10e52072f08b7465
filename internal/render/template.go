// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html/template"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; font-size: 11pt; line-height: 1.5; color: #000; }
p { margin: 0 0 10px 0; }
h1, h2, h3, h4, h5, h6 { margin: 20px 0 10px 0; line-height: 1.2; }
ul, ol { margin: 0 0 10px 0; padding-left: 24px; }
table { width: 100%; border-collapse: collapse; margin: 0 0 15px 0; }
th, td { border: 1px solid #000; padding: 5px; vertical-align: top; text-align: left; }
td p, th p { margin: 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// Wrap embeds an extracted HTML fragment in the fixed page template. The
// fragment is trusted: it is produced by the document extractor, which
// escapes all document text.
func Wrap(title, fragment string) (string, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(fragment),
	})
	if err != nil {
		return "", fmt.Errorf("executing page template: %w", err)
	}
	return buf.String(), nil
}
