// Command puzzle is a terminal client for the notes and image-puzzle
// service.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atinyakov/puzzlenotes/internal/client/app"
	"github.com/atinyakov/puzzlenotes/internal/client/router"
	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/config"
	"github.com/atinyakov/puzzlenotes/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

var errLoginRequired = errors.New("login required, run 'puzzle login' first")

// cli carries the state shared by every command of one invocation.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgPath string
	verbose bool

	log  *logger.Logger
	app  *app.App
	opts app.Options
	ask  *prompter
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "puzzle",
		Short:         "Terminal client for the notes and image-puzzle service",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Log.Sync()
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to a YAML config file (or set CONFIG_PATH)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.versionCmd(),
		c.navigateCmd(),
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.validateCmd(),
		c.profileCmd(),
		c.notesCmd(),
		c.discoverCmd(),
		c.userNotesCmd(),
		c.likeCmd(),
		c.favoriteCmd(),
		c.favoritesCmd(),
		c.commentsCmd(),
		c.memoriesCmd(),
		c.worksCmd(),
		c.consumptionCmd(),
	)
	return root
}

// setup loads the config, starts the logger and builds the app.
func (c *cli) setup() error {
	cfg, err := config.LoadClient(c.cfgPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	if err := c.log.Init(level); err != nil {
		return err
	}

	opts := c.opts
	if opts.Notifier == nil {
		opts.Notifier = transport.NotifierFunc(c.notify)
	}
	c.app, err = app.New(cfg, c.log.Log, opts)
	if err != nil {
		return err
	}
	c.ask = newPrompter(c.in, c.errOut)
	c.log.Log.Debug("client ready", zap.String("base_url", cfg.BaseURL()))
	return nil
}

func (c *cli) notify(level transport.Level, msg string) {
	prefix := "error"
	if level == transport.LevelWarning {
		prefix = "warning"
	}
	fmt.Fprintf(c.errOut, "%s: %s\n", prefix, msg)
}

// enter navigates to the view a command acts in and fails when the guard
// sends the user to the login view.
func (c *cli) enter(location string) error {
	d, err := c.app.Router.Push(location)
	if err != nil {
		return err
	}
	if d.Outcome == router.RedirectedToLogin {
		return errLoginRequired
	}
	return nil
}

func (c *cli) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version and date",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "puzzle\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		},
	}
}

func (c *cli) navigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <location>",
		Short: "Run the navigation guard for a location and print the decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Router.Push(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "outcome:  %s\nlocation: %s\ntitle:    %s\n", d.Outcome, c.app.Router.Current(), c.app.Router.Title())
			return nil
		},
	}
}

// run executes one invocation and returns the exit code.
func run(args []string, in io.Reader, out, errOut io.Writer, opts app.Options) int {
	c := &cli{in: in, out: out, errOut: errOut, log: logger.New(), opts: opts}
	root := newRootCmd(c)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		// Transport failures were already shown by the notifier.
		var te *transport.Error
		if !errors.As(err, &te) {
			fmt.Fprintln(errOut, "error:", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, app.Options{}))
}
