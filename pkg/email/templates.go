package email

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"plural":   plural,
	"datetime": datetime,
}

func datetime(t time.Time) string {
	return t.Format("2006-01-02 15:04 MST")
}

// plural "1 image", "3 images"
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// loadTemplates rapor şablonlarını yardımcı fonksiyonlarla birlikte yükler
func loadTemplates() (*template.Template, error) {
	return template.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
