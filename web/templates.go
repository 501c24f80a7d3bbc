package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/models"
)

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"badge":   models.BadgeClass,
	"shortID": listctl.ShortID,
	"money":   func(v float64) string { return fmt.Sprintf("KES %.2f", v) },
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"add":     func(a, b int) int { return a + b },
	"sub":     func(a, b int) int { return a - b },
	"join":    strings.Join,
	"sel": func(entity, id string, checked bool, csrf string) map[string]any {
		return map[string]any{"Entity": entity, "ID": id, "Checked": checked, "CSRF": csrf}
	},
	// posted prefers the value typed into a rejected form over the stored one
	"posted": func(form map[string]string, key string, stored any) any {
		if v, ok := form[key]; ok {
			return v
		}
		return stored
	},
	"bar": func(v float64, s models.Series) float64 {
		var max float64
		for _, x := range s.Values {
			if x > max {
				max = x
			}
		}
		if max == 0 {
			return 0
		}
		return v / max * 100
	},
}

// Templates parses every page template
func Templates() (*template.Template, error) {
	return template.New("").Option("missingkey=zero").Funcs(Funcs).ParseFS(TemplatesFS, "templates/*.html")
}

// Static returns the static asset tree rooted at static/
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
