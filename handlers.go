package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/archive"
	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/ProsperityMC/whitelist-form/internal/httpx"
	"github.com/ProsperityMC/whitelist-form/internal/session"
	"github.com/ProsperityMC/whitelist-form/internal/store"
	"github.com/gorilla/schema"
	"github.com/julienschmidt/httprouter"
)

const notifyTimeout = 30 * time.Second

var answersDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type homePage struct {
	Session     session.Session
	AvatarURL   string
	Application *application.Application
	UI          form.UI
}

func (s *server) home(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sess := s.sessions.Lookup(req)
	data := homePage{Session: sess, UI: s.forms.UI}
	if sess.Discord != nil {
		data.AvatarURL = session.AvatarURL(sess.Discord.ID, sess.Discord.Avatar)
		app, err := s.store.Latest(req.Context(), sess.Discord.ID)
		switch {
		case err == nil:
			data.Application = &app
		case !errors.Is(err, store.ErrNotFound):
			s.log.Error("Failed to look up application", "discord", sess.Discord.ID, "err", err)
		}
	}
	s.render(rw, http.StatusOK, "home.go.html", data)
}

type applyPage struct {
	Session session.Session
	Form    *form.Config
	Values  url.Values
	Errors  form.Errors
	Success bool
	Failure string
}

func (p applyPage) Value(name string) string {
	return p.Values.Get(name)
}

func (s *server) applyForm(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sess := s.sessions.Lookup(req)
	if sess.Discord == nil {
		http.Redirect(rw, req, "/", http.StatusFound)
		return
	}
	s.render(rw, http.StatusOK, "apply.go.html", applyPage{Session: sess, Form: s.forms, Values: url.Values{}})
}

func (s *server) applySubmit(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sess := s.sessions.Lookup(req)
	if sess.Discord == nil {
		http.Error(rw, "Error: Not logged in", http.StatusForbidden)
		return
	}
	if err := req.ParseForm(); err != nil {
		http.Error(rw, "Invalid form submission", http.StatusBadRequest)
		return
	}
	values := form.Trim(req.PostForm)
	page := applyPage{Session: sess, Form: s.forms, Values: values}

	errs := s.forms.Validate(values)
	if values.Get("rulesAccepted") != "true" {
		if errs == nil {
			errs = make(form.Errors)
		}
		errs["rulesAccepted"] = s.forms.Messages.RulesRequired
	}
	if errs != nil {
		page.Errors = errs
		s.render(rw, http.StatusUnprocessableEntity, "apply.go.html", page)
		return
	}

	var answers application.Answers
	if err := answersDecoder.Decode(&answers, values); err != nil {
		s.log.Warn("Failed to decode application", "discord", sess.Discord.ID, "err", err)
		page.Failure = s.forms.UI.ErrorDescription
		s.render(rw, http.StatusBadRequest, "apply.go.html", page)
		return
	}

	app := application.Application{
		Username: sess.Discord.Username,
		Answers:  answers,
		Discord:  sess.Discord.Identity(),
	}
	err := s.store.Submit(req.Context(), &app)
	switch {
	case errors.Is(err, store.ErrPendingExists):
		page.Failure = "Ya tienes una solicitud pendiente de revisión."
		s.render(rw, http.StatusConflict, "apply.go.html", page)
		return
	case err != nil:
		s.log.Error("Failed to store application", "discord", sess.Discord.ID, "err", err)
		page.Failure = s.forms.UI.ErrorDescription
		s.render(rw, http.StatusInternalServerError, "apply.go.html", page)
		return
	}

	s.log.Info("Application submitted", "id", app.ID, "discord", app.Discord.ID, "username", app.Username)
	s.render(rw, http.StatusOK, "apply.go.html", applyPage{Session: sess, Form: s.forms, Success: true})
}

type queuePage struct {
	Session session.Session
	Cards   []archive.Card
}

func (s *server) adminApplications(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sess := s.sessions.Lookup(req)
	if !s.forms.IsAdmin(sess.DiscordID()) {
		http.Redirect(rw, req, "/", http.StatusFound)
		return
	}
	pending, err := s.store.Pending(req.Context())
	if err != nil {
		s.log.Error("Failed to list pending applications", "err", err)
		http.Error(rw, "Failed to fetch applications", http.StatusInternalServerError)
		return
	}
	cards := make([]archive.Card, len(pending))
	for i := range pending {
		cards[i] = archive.NewCard(pending[i])
	}
	s.render(rw, http.StatusOK, "applications.go.html", queuePage{Session: sess, Cards: cards})
}

func (s *server) adminDecision(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	sess := s.sessions.Lookup(req)
	if !s.forms.IsAdmin(sess.DiscordID()) {
		http.Error(rw, "Error: Admins only", http.StatusForbidden)
		return
	}
	status := application.Status(req.FormValue("status"))
	app, err := s.store.Decide(req.Context(), params.ByName("id"), status, req.FormValue("reason"), time.Now())
	switch {
	case errors.Is(err, store.ErrInvalidStatus), errors.Is(err, store.ErrReasonRequired):
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrNotFound):
		http.Error(rw, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, store.ErrAlreadyDecided):
		http.Error(rw, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.log.Error("Failed to decide application", "id", params.ByName("id"), "err", err)
		http.Error(rw, "Failed to update the application", http.StatusInternalServerError)
		return
	}

	s.log.Info("Application decided", "id", app.ID, "status", app.Status, "admin", sess.DiscordID())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Decided(ctx, app); err != nil {
			s.log.Warn("Failed to notify applicant", "id", app.ID, "discord", app.Discord.ID, "err", err)
		}
	}()
	http.Redirect(rw, req, "/admin/applications", http.StatusFound)
}

type archivePage struct {
	Session session.Session
	*archive.Page
}

func (s *server) adminArchive(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sess := s.sessions.Lookup(req)
	page := archive.NewPage(s.forms, s.archive, s.log.With("page", "archive"))
	page.Sync(req.Context(), sess)
	if to := page.Redirect(); to != "" {
		http.Redirect(rw, req, to, http.StatusFound)
		return
	}
	page.SetQuery(req.URL.Query().Get("q"))
	s.render(rw, http.StatusOK, "archive.go.html", archivePage{Session: sess, Page: page})
}

func (s *server) requireAdmin(req *http.Request) error {
	sess := s.sessions.Lookup(req)
	if sess.Status != session.StatusAuthenticated {
		return httpx.Error(http.StatusUnauthorized, errors.New("not logged in"))
	}
	if !s.forms.IsAdmin(sess.DiscordID()) {
		return httpx.Error(http.StatusForbidden, errors.New("admins only"))
	}
	return nil
}

func (s *server) apiPending(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) error {
	if err := s.requireAdmin(req); err != nil {
		return err
	}
	apps, err := s.store.Pending(req.Context())
	if err != nil {
		return err
	}
	return httpx.JSON(rw, apps)
}

func (s *server) apiArchive(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) error {
	if err := s.requireAdmin(req); err != nil {
		return err
	}
	apps, err := s.store.Archive(req.Context())
	if err != nil {
		return err
	}
	return httpx.JSON(rw, apps)
}
