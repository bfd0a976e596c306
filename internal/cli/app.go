package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"codeme-client/internal/api"
	"codeme-client/internal/apiclient"
	"codeme-client/internal/auth"
	"codeme-client/internal/config"
	"codeme-client/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

// ErrUsage reports a malformed command line; usage has already been printed
var ErrUsage = errors.New("invalid usage")

const usage = `Usage: codeme [--config FILE] <command> [flags]

Commands:
  serve                          run the companion server
  login                          log in through the browser and store the token
  logout                         forget the stored token
  share --group ID [--title T]   create a share link for a group
  docs list                      list your documents
  docs upload PATH [--title T]   upload a file
  docs download ID DEST          download a document to DEST
  docs delete ID                 delete a document
`

// App wires the commands to one shared auth state and backend client
type App struct {
	cfg         *config.Config
	state       *auth.State
	links       service.LinkServiceInterface
	documents   service.DocumentServiceInterface
	out         io.Writer
	errOut      io.Writer
	openBrowser func(url string) error

	landingGrace time.Duration
	server       *api.Server
}

// New creates an App writing command output to out and diagnostics to errOut
func New(cfg *config.Config, state *auth.State, out, errOut io.Writer) *App {
	client := apiclient.New(cfg, state)
	return &App{
		cfg:         cfg,
		state:       state,
		links:       service.NewLinkService(client, cfg.LinkIdempotencyKeys),
		documents:   service.NewDocumentService(client, cfg.MaxUploadBytes(), validator.New()),
		out:         out,
		errOut:      errOut,
		openBrowser: OpenBrowser,

		landingGrace: LandingGrace,
	}
}

// Run dispatches args (without the program name) to a command
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return a.Serve(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout()
	case "share":
		return a.runShare(ctx, rest)
	case "docs":
		return a.runDocs(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func (a *App) runShare(ctx context.Context, args []string) error {
	fs := a.flagSet("share")
	group := fs.String("group", "", "group id to share")
	title := fs.String("title", "", "link title (default \"폴더 기반 공유 링크\")")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*group) == "" {
		fmt.Fprintln(a.errOut, "share: --group is required")
		fs.PrintDefaults()
		return ErrUsage
	}
	return a.Share(ctx, *group, *title)
}

func (a *App) runDocs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return ErrUsage
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.ListDocuments(ctx)
	case "upload":
		fs := a.flagSet("docs upload")
		title := fs.String("title", "", "document title (default: file name)")
		if err := a.parse(fs, rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(a.errOut, "docs upload: expected exactly one PATH")
			return ErrUsage
		}
		return a.UploadDocument(ctx, fs.Arg(0), *title)
	case "download":
		if len(rest) != 2 {
			fmt.Fprintln(a.errOut, "docs download: expected ID and DEST")
			return ErrUsage
		}
		return a.DownloadDocument(ctx, rest[0], rest[1])
	case "delete":
		if len(rest) != 1 {
			fmt.Fprintln(a.errOut, "docs delete: expected ID")
			return ErrUsage
		}
		return a.DeleteDocument(ctx, rest[0])
	default:
		fmt.Fprintf(a.errOut, "unknown docs command %q\n\n%s", sub, usage)
		return ErrUsage
	}
}

func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ExitCode maps a command error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

