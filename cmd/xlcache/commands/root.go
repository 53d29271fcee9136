// Package commands implements the CLI commands for the xlcache translation cache.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/xlcache/internal/app"
	"go.trai.ch/xlcache/internal/build"
	"golang.org/x/term"
)

// CLI represents the command line interface for xlcache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	global  globalFlags
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Split(ctx context.Context, opts app.SplitOptions) error
	Join(ctx context.Context, opts app.JoinOptions) error
	Import(ctx context.Context, opts app.Options) error
	Keys(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
}

type globalFlags struct {
	config    string
	namespace string
	backend   string
	storePath string
	redisAddr string
	verbose   bool
	logJSON   bool
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "xlcache",
		Short:         "A translation cache in front of a batch translator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.global.config, "config", "c", "", "Configuration file (default ./xlcache.yaml)")
	pf.StringVarP(&c.global.namespace, "namespace", "n", "", "Cache namespace, e.g. a language pair")
	pf.StringVar(&c.global.backend, "backend", "", "Store backend: file or redis")
	pf.StringVar(&c.global.storePath, "store-path", "", "Root directory of the file store")
	pf.StringVar(&c.global.redisAddr, "redis-addr", "", "Address of the Redis server")
	pf.BoolVarP(&c.global.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&c.global.logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newSplitCmd())
	rootCmd.AddCommand(c.newJoinCmd())
	rootCmd.AddCommand(c.newImportCmd())
	rootCmd.AddCommand(c.newKeyCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetInput sets the input stream for the root command. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options builds the options shared by every command.
func (c *CLI) options(cmd *cobra.Command) app.Options {
	return app.Options{
		ConfigPath: c.global.config,
		Namespace:  c.global.namespace,
		Backend:    c.global.backend,
		StorePath:  c.global.storePath,
		RedisAddr:  c.global.redisAddr,
		Verbose:    c.global.verbose,
		LogJSON:    c.global.logJSON,
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
	}
}

// warnIfTerminal hints that a command is waiting for input typed on a terminal.
func warnIfTerminal(cmd *cobra.Command) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "reading from the terminal, end the input with Ctrl-D")
}
