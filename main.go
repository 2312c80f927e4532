package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/ProsperityMC/whitelist-form/internal/notify"
	"github.com/ProsperityMC/whitelist-form/internal/session"
	"github.com/ProsperityMC/whitelist-form/internal/store"
	"github.com/charmbracelet/log"
	"github.com/mrmelon54/exit-reload"
	"github.com/ravener/discord-oauth2"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

var configFlag string

func main() {
	flag.StringVar(&configFlag, "conf", "config.yml", "Path to the config file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "Whitelist",
	})

	wd := filepath.Dir(configFlag)

	openConf, err := os.Open(configFlag)
	if err != nil {
		logger.Fatal("Failed to open config", "path", configFlag, "err", err)
	}
	var conf Config
	err = yaml.NewDecoder(openConf).Decode(&conf)
	_ = openConf.Close()
	if err != nil {
		logger.Fatal("Failed to decode config", "err", err)
	}

	forms := form.Default()
	if conf.Form != "" {
		forms, err = form.Load(resolvePath(wd, conf.Form))
		if err != nil {
			logger.Fatal("Failed to load form config", "err", err)
		}
	}
	logger.Info("Loaded form", "sections", len(forms.Sections()), "admins", len(forms.AdminDiscordIDs()))

	dbPath := conf.Database
	if dbPath == "" {
		dbPath = "whitelist.db"
	}
	db, err := store.Open(resolvePath(wd, dbPath))
	if err != nil {
		logger.Fatal("Failed to open database", "err", err)
	}

	var notifier notify.Notifier = notify.Nop{}
	if conf.Bot.Token != "" {
		notifier, err = notify.NewBot(conf.Bot.Token, forms.DiscordBot)
		if err != nil {
			logger.Fatal("Failed to create Discord bot session", "err", err)
		}
	}

	oauthConf := &oauth2.Config{
		RedirectURL:  conf.Login.RedirectUrl,
		ClientID:     conf.Login.Id,
		ClientSecret: conf.Login.Token,
		Scopes:       []string{discord.ScopeIdentify, discord.ScopeEmail},
		Endpoint:     discord.Endpoint,
	}
	if conf.Login.Guild.Id != "" {
		oauthConf.Scopes = append(oauthConf.Scopes, "guilds.members.read")
	}

	srv, err := newServer(serverOptions{
		Forms:    forms,
		Sessions: session.NewStore(conf.Secure),
		Store:    db,
		Notifier: notifier,
		OAuth:    oauthConf,
		GuildID:  conf.Login.Guild.Id,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Failed to load page templates", "err", err)
	}

	server := &http.Server{
		Handler:      srv.routes(),
		Addr:         conf.Listen,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		logger.Info("Listening for HTTP requests", "addr", server.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Listen and serve error", "err", err)
		}
	}()

	exit_reload.ExitReload("Whitelist", func() {
		logger.Warn("Reload requested, restart the server to apply config changes")
	}, func() {
		_ = server.Close()
		_ = db.Close()
	})
}

func resolvePath(wd, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(wd, p)
}
