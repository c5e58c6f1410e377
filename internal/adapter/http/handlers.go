package http

import (
	"net/http"
	"net/url"

	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/domain"
)

const magnitudeParam = "magnitude"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseMagnitudeFilter(r.URL.Query().Get(magnitudeParam))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := s.dashboard.View(filter)
	s.render(w, pageTemplate(view.Status), newPageData(view, s.mapCfg))
}

// handleRefresh serves the page's refresh and retry forms.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseMagnitudeFilter(r.FormValue(magnitudeParam))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.dashboard.Refresh()
	http.Redirect(w, r, pageURL(filter), http.StatusSeeOther)
}

func (s *Server) handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseMagnitudeFilter(r.URL.Query().Get(magnitudeParam))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.View(filter))
}

func (s *Server) handleAPIRefresh(w http.ResponseWriter, _ *http.Request) {
	if !s.dashboard.Refresh() {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "refresh already in progress"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// pageURL is the page address for filter; the default filter is omitted.
func pageURL(filter domain.MagnitudeFilter) string {
	if filter == domain.FilterAll {
		return "/"
	}
	return "/?" + url.Values{magnitudeParam: {string(filter)}}.Encode()
}

func pageTemplate(status dashboard.Status) string {
	switch status {
	case dashboard.StatusSuccess:
		return "map.html"
	case dashboard.StatusError:
		return "error.html"
	default:
		return "loading.html"
	}
}
