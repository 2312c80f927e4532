package archive

import (
	"context"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/session"
	"github.com/charmbracelet/log"
)

// Phase is the access state of an archive page.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseUnauthorized
	PhaseFetching
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseUnauthorized:
		return "unauthorized"
	case PhaseFetching:
		return "fetching"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// EmptyState selects what the page shows in place of the card list.
type EmptyState int

const (
	Populated EmptyState = iota
	NoArchived
	NoResults
)

func (e EmptyState) NoArchived() bool { return e == NoArchived }

func (e EmptyState) NoResults() bool { return e == NoResults }

const VariantDestructive = "destructive"

// Toast is a transient notification shown on top of the page.
type Toast struct {
	Title       string
	Description string
	Variant     string
}

var fetchFailed = Toast{
	Title:       "Error",
	Description: "Failed to fetch archived applications. Please try again.",
	Variant:     VariantDestructive,
}

type Fetcher interface {
	FetchArchive(ctx context.Context) ([]application.Application, error)
}

type FetcherFunc func(ctx context.Context) ([]application.Application, error)

func (f FetcherFunc) FetchArchive(ctx context.Context) ([]application.Application, error) {
	return f(ctx)
}

// Admins decides who may see the archive.
type Admins interface {
	IsAdmin(discordID string) bool
}

type syncKey struct {
	status    session.Status
	discordID string
	fetcher   int
}

// Page holds the state of one admin archive view. Sync drives the access
// state machine: a loading session keeps the page loading, anyone who is
// not an admin is sent to "/" and an admin causes a single archive fetch.
// Sync only acts when the session status, the Discord id or the fetcher
// changed since the previous call.
type Page struct {
	admins  Admins
	fetcher Fetcher
	log     *log.Logger

	phase    Phase
	redirect string
	loading  bool
	toasts   []Toast

	apps    []application.Application
	appsGen int
	query   string

	synced     bool
	lastKey    syncKey
	fetcherGen int

	memo struct {
		valid   bool
		appsGen int
		query   string
		result  []application.Application
	}
	filterRuns int
}

func NewPage(admins Admins, fetcher Fetcher, logger *log.Logger) *Page {
	return &Page{
		admins:  admins,
		fetcher: fetcher,
		log:     logger,
		loading: true,
	}
}

// SetFetcher replaces the fetcher. The next Sync fetches again for an admin.
func (p *Page) SetFetcher(f Fetcher) {
	p.fetcher = f
	p.fetcherGen++
}

func (p *Page) Sync(ctx context.Context, s session.Session) {
	key := syncKey{status: s.Status, discordID: s.DiscordID(), fetcher: p.fetcherGen}
	if p.synced && key == p.lastKey {
		return
	}
	p.synced, p.lastKey = true, key

	switch {
	case s.Status == session.StatusLoading:
		p.phase = PhaseLoading
	case s.Status != session.StatusAuthenticated || !p.admins.IsAdmin(s.DiscordID()):
		p.phase = PhaseUnauthorized
		p.redirect = "/"
	default:
		p.redirect = ""
		p.fetch(ctx)
	}
}

func (p *Page) fetch(ctx context.Context) {
	p.phase = PhaseFetching
	p.loading = true
	defer func() {
		p.loading = false
		p.phase = PhaseReady
	}()

	apps, err := p.fetcher.FetchArchive(ctx)
	if err != nil {
		p.log.Error("Error fetching archived applications", "err", err)
		p.toasts = append(p.toasts, fetchFailed)
		return
	}
	p.apps = apps
	p.appsGen++
}

func (p *Page) Phase() Phase {
	return p.phase
}

// Redirect is the location to navigate to, or "" to stay on the page.
func (p *Page) Redirect() string {
	return p.redirect
}

// Loading reports whether the loading indicator is shown instead of content.
func (p *Page) Loading() bool {
	return p.phase == PhaseLoading || p.loading
}

func (p *Page) Toasts() []Toast {
	return p.toasts
}

// Applications returns the last fetched archive.
func (p *Page) Applications() []application.Application {
	return p.apps
}

func (p *Page) Query() string {
	return p.query
}

func (p *Page) SetQuery(q string) {
	p.query = q
}

// Filtered returns the archive filtered by the current query. The result
// is cached until either the archive or the query changes.
func (p *Page) Filtered() []application.Application {
	if p.memo.valid && p.memo.appsGen == p.appsGen && p.memo.query == p.query {
		return p.memo.result
	}
	p.filterRuns++
	p.memo.result = Filter(p.apps, p.query)
	p.memo.valid, p.memo.appsGen, p.memo.query = true, p.appsGen, p.query
	return p.memo.result
}

func (p *Page) EmptyState() EmptyState {
	if len(p.Filtered()) > 0 {
		return Populated
	}
	if p.query != "" {
		return NoResults
	}
	return NoArchived
}

// ShowCount reports whether the result count line is shown.
func (p *Page) ShowCount() bool {
	return p.query != ""
}

func (p *Page) ResultCount() string {
	return ResultCount(len(p.Filtered()))
}

// Cards returns the render data of every matching application.
func (p *Page) Cards() []Card {
	apps := p.Filtered()
	cards := make([]Card, len(apps))
	for i := range apps {
		cards[i] = NewCard(apps[i])
	}
	return cards
}
