// Command archive-search queries the application archive of a running
// whitelist server from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/archive"
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

type Context struct {
	Logger *log.Logger
	Out    io.Writer
}

var cli struct {
	Debug bool `help:"Enable debug logging."`

	Search SearchCmd `cmd:"" default:"withargs" help:"Search archived applications."`
}

type SearchCmd struct {
	URL     string        `required:"" env:"WHITELIST_URL" help:"Base URL of the whitelist server."`
	Session string        `required:"" env:"WHITELIST_SESSION" help:"session-id cookie of an admin."`
	Timeout time.Duration `default:"30s" help:"Request timeout."`
	Query   []string      `arg:"" optional:"" help:"Search terms, joined with spaces."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	c, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	client := &archive.Client{BaseURL: s.URL, Session: s.Session}
	apps, err := client.FetchArchive(c)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("Fetched archive", "count", len(apps))

	matches := archive.Filter(apps, strings.Join(s.Query, " "))
	return printApplications(ctx.Out, matches)
}

func printApplications(w io.Writer, apps []application.Application) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tDISCORD\tSTATUS\tPROCESSED\tREASON")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Username, a.Discord.ID, a.Status, archive.ProcessedDate(a.UpdatedAt), a.StatusReason)
	}
	fmt.Fprintln(tw, archive.ResultCount(len(apps)))
	return tw.Flush()
}

func main() {
	ctx := kong.Parse(&cli)
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "archive-search"})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	err := ctx.Run(&Context{Logger: logger, Out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
