package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/tosparser/internal/app"
	"github.com/specialistvlad/tosparser/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks err as a problem with how the program was invoked.
func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// Execute runs the command line in args. Usage errors are returned as an
// ExitError with code 2; parsing failures are returned as they are.
func Execute(ctx context.Context, args []string, outW io.Writer) error {
	if args == nil {
		args = []string{}
	}
	cmd := NewCommand(outW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewCommand builds the root command and its subcommands. Each call gets its
// own settings, so commands can be built side by side in tests.
func NewCommand(outW io.Writer) *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:   "tosparser [REGION]",
		Short: "Extract jobs, attributes and skills from Tree of Savior client data",
		Long: `tosparser reads the unpacked client tables of one region, links jobs,
attributes and skills to each other, and writes them as JSON documents for
the web front-end.

REGION is one of ` + strings.Join(config.Regions, ", ") + ` (default ` + config.DefaultRegion + `).`,
		Args:          regionArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(v, configFile, args)
			if err != nil {
				return err
			}
			return app.NewApp(outW, settings).Run(cmd.Context())
		},
	}

	paths := &cobra.Command{
		Use:   "paths [REGION]",
		Short: "Print the resolved source and output paths of a region",
		Args:  regionArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(v, configFile, args)
			if err != nil {
				return err
			}
			if err := app.NewApp(outW, settings).PrintLayout(cmd.Context()); err != nil {
				return usageError(err)
			}
			return nil
		},
	}
	root.AddCommand(paths)

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Settings file (default ./tosparser.yaml if present).")
	flags.StringP("layout", "l", "", "Layout manifest: an .hcl file or a directory of them. Built-in layout if empty.")
	flags.StringP("output-dir", "o", "", "Write documents here instead of the layout's output_dir.")
	flags.String("translations", "", "YAML string table used to translate names and descriptions.")
	flags.String("icons", "", "YAML icon alias table.")
	flags.String("log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error' (default info).")
	flags.String("log-format", "", "Log output format: 'text' or 'json' (default text).")

	for key, flag := range map[string]string{
		"layout":         "layout",
		"output_dir":     "output-dir",
		"translations":   "translations",
		"icons":          "icons",
		"logging.level":  "log-level",
		"logging.format": "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}

	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	return root
}

func regionArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usageError(fmt.Errorf("accepts at most one REGION, received %d arguments", len(args)))
	}
	return nil
}

func loadSettings(v *viper.Viper, configFile string, args []string) (*config.Settings, error) {
	if len(args) == 1 {
		v.Set("region", args[0])
	}
	settings, err := config.Load(v, configFile)
	if err != nil {
		return nil, usageError(err)
	}
	return settings, nil
}
