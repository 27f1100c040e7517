package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/repository"
	"inventory-tracker/internal/service"
	"inventory-tracker/internal/source"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	File    string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Env carries the dependencies shared by every command.
type Env struct {
	Config *config.Config
	Logger zerolog.Logger
	Loader source.Loader    // nil reads the local file system
	Now    func() time.Time // nil uses time.Now
}

// app binds the environment to the parsed global flags.
type app struct {
	env  Env
	opts *RootOptions
}

// NewRootCommand creates the root command for the inventory CLI.
func NewRootCommand(env Env) *cobra.Command {
	a := &app{env: env, opts: &RootOptions{}}

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Warehouse inventory tracker",
		Long: `Track warehouse stock in a single CSV file.

Every change is written back to the file before the command returns.
Reports and exports are computed from the current contents of the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(a.opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", a.opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&a.opts.File, "file", "f", env.Config.Inventory.File, "inventory CSV file")
	cmd.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&a.opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newGetCommand(a))
	cmd.AddCommand(newAddCommand(a))
	cmd.AddCommand(newUpdateCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newAdjustCommand(a))
	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newCategoryCommand(a))
	cmd.AddCommand(newSupplierCommand(a))
	cmd.AddCommand(newLowStockCommand(a))
	cmd.AddCommand(newSummaryCommand(a))
	cmd.AddCommand(newAnalyticsCommand(a))
	cmd.AddCommand(newExportCommand(a))

	return cmd
}

// Execute runs the command tree with args, renders any error in the
// selected format and returns the process exit code.
func Execute(ctx context.Context, env Env, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(env)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	formatter := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}
	_ = formatter.Error(err)

	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (a *app) logger() zerolog.Logger {
	if a.opts.Verbose {
		return a.env.Logger.Level(zerolog.DebugLevel)
	}
	return a.env.Logger
}

func (a *app) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    a.opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   a.opts.Verbose,
	}
}

// store opens and loads the backing file named by --file.
func (a *app) store(cmd *cobra.Command) (repository.ProductRepository, error) {
	var opts []repository.Option
	if a.env.Loader != nil {
		opts = append(opts, repository.WithLoader(a.env.Loader))
	}
	if a.env.Now != nil {
		opts = append(opts, repository.WithClock(a.env.Now))
	}

	repo, report, err := repository.Open(cmd.Context(), a.opts.File, a.logger(), opts...)
	if err != nil {
		return nil, err
	}

	if n := len(report.Skipped); n > 0 {
		a.formatter(cmd).Warn("skipped %d malformed row(s) in %s", n, a.opts.File)
		for _, skipped := range report.Skipped {
			a.formatter(cmd).VerboseLog("  %v", skipped)
		}
	}
	return repo, nil
}

func (a *app) analytics(cmd *cobra.Command) (service.AnalyticsService, error) {
	repo, err := a.store(cmd)
	if err != nil {
		return nil, err
	}
	return service.NewAnalyticsService(repo, a.logger()), nil
}
