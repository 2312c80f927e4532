package main

import (
	"io"
	"net/http"

	"github.com/ProsperityMC/whitelist-form/internal/session"
	"github.com/carlmjohnson/requests"
	"github.com/julienschmidt/httprouter"
)

func (s *server) login(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sessId := s.sessions.ID(rw, req)
	state := s.sessions.NewState(sessId)
	http.Redirect(rw, req, s.oauth.AuthCodeURL(state.String()), http.StatusFound)
}

func (s *server) logout(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	s.sessions.Logout(rw, req)
	http.Redirect(rw, req, "/", http.StatusFound)
}

func (s *server) callback(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sessId := s.sessions.ID(rw, req)
	if !s.sessions.CheckState(sessId, req.FormValue("state")) {
		http.Error(rw, "State does not match", http.StatusBadRequest)
		return
	}

	token, err := s.oauth.Exchange(req.Context(), req.FormValue("code"))
	if err != nil {
		s.log.Warn("OAuth exchange failed", "err", err)
		http.Error(rw, "Failed to log in with Discord", http.StatusInternalServerError)
		return
	}
	client := s.oauth.Client(req.Context(), token)

	var raw session.RawUser
	err = requests.URL(s.discordAPI + "/users/@me").
		Client(client).
		ToJSON(&raw).
		Fetch(req.Context())
	if err != nil {
		s.log.Warn("Failed to fetch Discord user", "err", err)
		http.Error(rw, "Error collecting data from the Discord API", http.StatusInternalServerError)
		return
	}

	if s.guildID != "" {
		res, err := client.Get(s.discordAPI + "/users/@me/guilds/" + s.guildID + "/member")
		if err != nil {
			http.Error(rw, "Error collecting data from the Discord API", http.StatusInternalServerError)
			return
		}
		defer func(Body io.ReadCloser) {
			_, _ = io.Copy(io.Discard, Body)
			_ = Body.Close()
		}(res.Body)

		// check request status code
		switch res.StatusCode {
		case http.StatusOK:
		case http.StatusNotFound:
			http.Error(rw, "User must be in the Discord guild", http.StatusConflict)
			return
		default:
			http.Error(rw, "Received unexpected response from Discord", http.StatusInternalServerError)
			return
		}
	}

	user := session.FromUser(raw)
	s.sessions.Login(sessId, user)
	s.log.Info("Logged in", "discord", user.ID, "username", user.Username, "admin", s.forms.IsAdmin(user.ID))
	http.Redirect(rw, req, "/", http.StatusFound)
}
