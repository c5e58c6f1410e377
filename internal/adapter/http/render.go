package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"toJSON": toJSON,
}).ParseFS(templateFS, "templates/*.html"))

type filterOption struct {
	Value    domain.MagnitudeFilter
	Label    string
	Selected bool
}

type legendEntry struct {
	Color string
	Label string
}

type pageData struct {
	View            dashboard.View
	Filters         []filterOption
	Legend          []legendEntry
	RefreshURL      string
	ReloadURL       string
	TileURL         string
	TileAttribution string
}

func newPageData(view dashboard.View, mapCfg MapSettings) pageData {
	filters := make([]filterOption, 0, 4)
	for _, f := range domain.MagnitudeFilters() {
		filters = append(filters, filterOption{Value: f, Label: f.Label(), Selected: f == view.Filter})
	}

	return pageData{
		View:    view,
		Filters: filters,
		Legend: []legendEntry{
			{Color: domain.BucketMinor.Color(), Label: "< 3.0 Magnitude"},
			{Color: domain.BucketModerate.Color(), Label: "3.0 - 5.0 Magnitude"},
			{Color: domain.BucketMajor.Color(), Label: "> 5.0 Magnitude"},
		},
		RefreshURL:      "/refresh",
		ReloadURL:       pageURL(view.Filter),
		TileURL:         mapCfg.TileURL,
		TileAttribution: mapCfg.TileAttribution,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render page failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
