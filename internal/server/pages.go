package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// --- Page Handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	p := s.session.Jobs
	s.writePage(w, p.List(r.URL.Query().Get("company")), p.Toasts())
}

func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	p := s.session.Jobs
	job, err := p.Detail(chi.URLParam(r, "jobID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, job, p.Toasts())
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, s.session.Profile(), nil)
}

func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	p := s.session.MyJobs
	q := r.URL.Query()
	if tab := q.Get("tab"); tab != "" {
		if err := p.SetTab(tab); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if q.Has("q") {
		p.SetSearch(q.Get("q"))
	}
	if sort := q.Get("sort"); sort != "" {
		p.SetSort(sort)
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	p := s.session.Calendar
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	p := s.session.Companies
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	p := s.session.Tracker
	if q := r.URL.Query(); q.Has("q") {
		p.SetSearch(q.Get("q"))
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	p := s.session.Messages
	q := r.URL.Query()
	if q.Has("q") {
		p.SetSearch(q.Get("q"))
	}
	if id := q.Get("c"); id != "" {
		if err := p.Select(id); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	p := s.session.Notifications
	if tab := r.URL.Query().Get("tab"); tab != "" {
		p.SetTab(tab)
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	p := s.session.Documents
	q := r.URL.Query()
	if q.Has("q") {
		p.SetSearch(q.Get("q"))
	}
	if tab := q.Get("tab"); tab != "" {
		p.SetTab(tab)
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleDocumentView(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "inline")
}

func (s *Server) handleDocumentDownload(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "attachment")
}

// serveDocument streams the document through its temporary file, which is
// removed once the response is written.
func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, disposition string) {
	err := s.session.Documents.Open(chi.URLParam(r, "docID"), func(path string, doc model.Document) error {
		name := strings.ReplaceAll(doc.Name, `"`, "")
		w.Header().Set("Content-Disposition", disposition+`; filename="`+name+`"`)
		http.ServeFile(w, r, path)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
	}
}
