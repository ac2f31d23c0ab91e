package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/catalog"
	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/opml"
	"github.com/bryan-buckman/jobdesk/internal/pages"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// --- Jobs ---

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var f model.JobFilter
	if err := decode(r, &f); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.session.Jobs
	if err := p.SetFilter(f); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.List(""), p.Toasts())
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	p := s.session.Jobs
	if err := p.ClearFilters(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.List(""), p.Toasts())
}

func (s *Server) jobAction(w http.ResponseWriter, r *http.Request, fn func(id string) error) {
	id := chi.URLParam(r, "jobID")
	if err := fn(id); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.session.Jobs
	if job, err := p.Detail(id); err == nil {
		s.writePage(w, job, p.Toasts())
		return
	}
	s.writePage(w, s.session.Profile(), p.Toasts())
}

func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	s.jobAction(w, r, s.session.Jobs.Save)
}

func (s *Server) handleUnsaveJob(w http.ResponseWriter, r *http.Request) {
	s.jobAction(w, r, s.session.MyJobs.Unsave)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	s.jobAction(w, r, s.session.Jobs.Apply)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.jobAction(w, r, s.session.MyJobs.Withdraw)
}

func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.AppStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !req.Status.Valid() {
		s.writeError(w, errors.Validation("unknown status "+string(req.Status)))
		return
	}
	s.jobAction(w, r, func(id string) error {
		return s.store.Dispatch(state.UpdateApplicationStatus{JobID: id, Status: req.Status})
	})
}

// --- My jobs ---

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	p := s.session.MyJobs
	if err := p.Reschedule(chi.URLParam(r, "interviewID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleJoinCall(w http.ResponseWriter, r *http.Request) {
	link, err := s.session.MyJobs.JoinCall(chi.URLParam(r, "interviewID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	link, err := s.session.MyJobs.Directions(chi.URLParam(r, "interviewID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	p := s.session.MyJobs
	id := chi.URLParam(r, "offerID")
	var err error
	switch chi.URLParam(r, "decision") {
	case "accept":
		err = p.AcceptOffer(id)
	case "decline":
		err = p.DeclineOffer(id)
	case "negotiate":
		err = p.NegotiateOffer(id)
	default:
		err = errors.Validation("decision must be accept, decline or negotiate")
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

// --- Messages ---

func (s *Server) handleSelectConversation(w http.ResponseWriter, r *http.Request) {
	p := s.session.Messages
	if err := p.Select(chi.URLParam(r, "convID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleStarConversation(w http.ResponseWriter, r *http.Request) {
	p := s.session.Messages
	if err := p.ToggleStar(chi.URLParam(r, "convID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.session.Messages
	if err := p.Send(req.Text); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

// --- Notifications ---

func (s *Server) notificationAction(w http.ResponseWriter, r *http.Request, fn func(id string) error) {
	p := s.session.Notifications
	if err := fn(chi.URLParam(r, "notifID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	s.notificationAction(w, r, s.session.Notifications.MarkRead)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s.notificationAction(w, r, s.session.Notifications.ToggleFavorite)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	s.notificationAction(w, r, s.session.Notifications.Delete)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	p := s.session.Notifications
	p.MarkAllRead()
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	p := s.session.Notifications
	p.ClearAll()
	s.writePage(w, p.View(), p.Toasts())
}

// --- Calendar ---

func (s *Server) handleCalendarNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.session.Calendar
	p.Navigate(req.Delta)
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleCalendarToday(w http.ResponseWriter, r *http.Request) {
	p := s.session.Calendar
	p.Today()
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleCalendarSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, time.Local)
	if err != nil {
		s.writeError(w, errors.Validation("date must be YYYY-MM-DD"))
		return
	}
	p := s.session.Calendar
	p.Select(date)
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var form pages.EventForm
	if err := decode(r, &form); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.session.Calendar
	if _, err := p.AddEvent(form); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

// --- Tracker ---

func (s *Server) handleSaveApplication(w http.ResponseWriter, r *http.Request) {
	var form pages.ApplicationForm
	if err := decode(r, &form); err != nil {
		s.writeError(w, err)
		return
	}
	form.ID = chi.URLParam(r, "appID")
	p := s.session.Tracker
	if _, err := p.Save(form); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	p := s.session.Tracker
	p.Delete(chi.URLParam(r, "appID"))
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleAdvanceApplication(w http.ResponseWriter, r *http.Request) {
	p := s.session.Tracker
	if _, err := p.Advance(chi.URLParam(r, "appID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

// --- Documents ---

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, errors.Validation("invalid upload"))
		return
	}
	var files []pages.Upload
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, errors.Validation("unreadable file "+fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.writeError(w, errors.Validation("unreadable file "+fh.Filename))
			return
		}
		files = append(files, pages.Upload{Name: fh.Filename, Data: data})
	}
	p := s.session.Documents
	if _, err := p.Upload(files); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	p := s.session.Documents
	if err := p.Delete(chi.URLParam(r, "docID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writePage(w, p.View(), p.Toasts())
}

// --- Catalog sources and settings ---

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	interval, _ := s.db.GetPollingInterval()
	s.writeJSON(w, http.StatusOK, map[string]any{"polling_interval": interval})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PollingInterval int `json:"polling_interval"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.PollingInterval = max(req.PollingInterval, database.MinPollingIntervalMinutes)
	if err := s.db.SetSetting(model.SettingPollingInterval, strconv.Itoa(req.PollingInterval)); err != nil {
		s.writeError(w, errors.Internal("save settings", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "polling_interval": req.PollingInterval})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetSources()
	if err != nil {
		s.writeError(w, errors.Internal("list sources", err))
		return
	}
	if sources == nil {
		sources = []model.JobSource{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sourceID"), 10, 64)
	if err != nil {
		s.writeError(w, errors.Validation("invalid source id"))
		return
	}
	if err := s.db.DeleteSource(id); err != nil {
		s.writeError(w, errors.Internal("delete source", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleImportOPML(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("opml")
	if err != nil {
		s.writeError(w, errors.Validation("no file provided"))
		return
	}
	defer file.Close()

	entries, err := opml.Parse(file)
	if err != nil {
		s.writeError(w, errors.Validation(fmt.Sprintf("failed to parse OPML: %v", err)))
		return
	}
	imported, err := catalog.RegisterSources(s.db, nil, entries)
	if err != nil {
		s.logger.Warn("import opml", zap.Int("imported", imported), zap.Error(err))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"imported": imported,
		"total":    len(entries),
	})
}

func (s *Server) handleExportOPML(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetSources()
	if err != nil {
		s.writeError(w, errors.Internal("list sources", err))
		return
	}
	data, err := opml.Export("jobdesk job sources", sources, time.Now())
	if err != nil {
		s.writeError(w, errors.Internal("export opml", err))
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", "attachment; filename=jobdesk-sources.opml")
	w.Write(data)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	results, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.writeError(w, errors.Internal("refresh catalog", err))
		return
	}
	total := 0
	for _, c := range results {
		total += c
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"jobs":    total,
		"sources": len(results),
	})
}
