package main

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/ProsperityMC/whitelist-form/internal/archive"
	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/ProsperityMC/whitelist-form/internal/httpx"
	"github.com/ProsperityMC/whitelist-form/internal/notify"
	"github.com/ProsperityMC/whitelist-form/internal/session"
	"github.com/ProsperityMC/whitelist-form/internal/store"
	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
)

//go:embed templates/*.go.html
var templatesFS embed.FS

const discordAPI = "https://discord.com/api"

type serverOptions struct {
	Forms    *form.Config
	Sessions *session.Store
	Store    *store.Store
	Notifier notify.Notifier
	OAuth    *oauth2.Config
	GuildID  string
	Logger   *log.Logger
}

type server struct {
	forms    *form.Config
	sessions *session.Store
	store    *store.Store
	notifier notify.Notifier
	oauth    *oauth2.Config
	guildID  string
	log      *log.Logger
	pages    *template.Template

	discordAPI string
	// archive feeds the admin archive page.
	archive archive.Fetcher
}

func newServer(opts serverOptions) (*server, error) {
	s := &server{
		forms:      opts.Forms,
		sessions:   opts.Sessions,
		store:      opts.Store,
		notifier:   opts.Notifier,
		oauth:      opts.OAuth,
		guildID:    opts.GuildID,
		log:        opts.Logger,
		discordAPI: discordAPI,
	}
	s.archive = archive.FetcherFunc(s.store.Archive)
	pages, err := loadPageTemplates(s.forms)
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

func loadPageTemplates(forms *form.Config) (*template.Template, error) {
	return template.New("whitelist").Funcs(template.FuncMap{
		"adminButton": func(sess session.Session) template.HTML {
			return AdminButton(forms, sess)
		},
		"avatarURL": session.AvatarURL,
		"processed": archive.ProcessedDate,
	}).ParseFS(templatesFS, "templates/*.go.html")
}

func (s *server) routes() *httprouter.Router {
	router := httprouter.New()
	router.GET("/", s.home)
	router.POST("/login", s.login)
	router.POST("/logout", s.logout)
	router.GET("/callback", s.callback)

	router.GET("/apply", s.applyForm)
	router.POST("/apply", s.applySubmit)

	router.GET("/admin/applications", s.adminApplications)
	router.POST("/admin/applications/:id/decision", s.adminDecision)
	router.GET("/admin/archive", s.adminArchive)

	router.GET("/api/applications", httpx.Handle(s.log, s.apiPending))
	router.GET("/api/applications/archive", httpx.Handle(s.log, s.apiArchive))
	return router
}

func (s *server) render(rw http.ResponseWriter, status int, name string, data any) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(rw, name, data); err != nil {
		s.log.Error("Failed to render page", "page", name, "err", err)
	}
}
