// Package web embeds the site's templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"

	"solar-store/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateCache holds one parsed template set per page, each combined with the
// shared layout. It implements gin's render.HTMLRender.
type TemplateCache struct {
	cache map[string]*template.Template
}

var _ render.HTMLRender = (*TemplateCache)(nil)

// LoadTemplates parses every embedded page.
func LoadTemplates() (*TemplateCache, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	tc := &TemplateCache{cache: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return tc, nil
}

func (tc *TemplateCache) Has(name string) bool {
	_, ok := tc.cache[name]
	return ok
}

// Instance is part of the render.HTMLRender interface.
func (tc *TemplateCache) Instance(name string, data any) render.Render {
	tmpl, ok := tc.cache[name]
	if !ok {
		panic(fmt.Sprintf("template %q not found", name))
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

var categoryLabels = map[models.Category]string{
	models.CategorySolar:    "طاقة شمسية (Solar Energy)",
	models.CategorySecurity: "كاميرات أمنية (Security Cameras)",
	models.CategoryInverter: "شواحن عاكسات وألواح (Chargers & Inverters)",
}

var statusLabels = map[string]string{
	string(models.OrderNew):         "جديد (New)",
	string(models.OrderProcessing):  "قيد التجهيز (Processing)",
	string(models.OrderCompleted):   "مكتمل (Completed)",
	string(models.OrderCancelled):   "ملغي (Cancelled)",
	string(models.BookingPending):   "بانتظار المراجعة (Pending)",
	string(models.BookingScheduled): "مجدول (Scheduled)",
}

// Funcs is the FuncMap every page is parsed with.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":    FormatPrice,
		"date":     func(t time.Time) string { return t.Format("2006-01-02") },
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"ago":      humanize.Time,
		"category": func(c models.Category) string {
			if label, ok := categoryLabels[c]; ok {
				return label
			}
			return string(c)
		},
		"status": func(s any) string { return statusLabel(fmt.Sprint(s)) },
		"upload": func(filename string) string {
			if filename == "" {
				return ""
			}
			return "/uploads/" + filename
		},
		"excerpt": func(s string, n int) string {
			r := []rune(strings.TrimSpace(s))
			if len(r) <= n {
				return string(r)
			}
			return string(r[:n]) + "…"
		},
		"coord": func(f *float64) string {
			if f == nil {
				return ""
			}
			return humanize.FtoaWithDigits(*f, 6)
		},
	}
}

func statusLabel(s string) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

// FormatPrice renders an IQD amount with thousands separators, keeping fils only
// when present.
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}
