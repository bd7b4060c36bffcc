package dopatch

import (
	"embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dopatch/internal/version"
	"github.com/arthur-debert/dopatch/pkg/cobrax/topics"
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/logging"
)

var log = logging.GetLogger("cli")

//go:embed topics
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dopatch",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&g.configFile, "config", "", MsgFlagConfig)
	flags.StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringVarP(&g.repository, "repository", "r", "", MsgFlagRepository)
	flags.StringVar(&g.cacheDir, "cache-dir", "", MsgFlagCacheDir)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "artifacts",
		Title: "ARTIFACTS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "patches",
		Title: "PATCHES:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newResolveCmd(g))
	rootCmd.AddCommand(newVersionsCmd(g))
	rootCmd.AddCommand(newManifestCmd(g))
	rootCmd.AddCommand(newDiffCmd(g))
	rootCmd.AddCommand(newPlanCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd(g))
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help, rendered with glamour
	helpTopics, err := topics.Load(topicFiles, "topics", topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	} else {
		helpTopics.Install(rootCmd)
		rootCmd.SetHelpCommandGroupID("misc")
	}

	return rootCmd
}

// runWithEnv adapts a command body that needs the loaded environment.
func runWithEnv(g *globalFlags, run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, g)
		if err != nil {
			return err
		}
		defer e.close()
		return run(cmd, args, e)
	}
}

func newVersionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, version.String()); err != nil {
				return err
			}
			if g.verbosity == 0 {
				return nil
			}
			_, err := fmt.Fprintf(out, MsgLogFile+"\n", logging.LogFilePath())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
