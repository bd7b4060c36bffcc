package dopatch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dopatch/pkg/config"
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/filesystem"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/patch"
	"github.com/arthur-debert/dopatch/pkg/paths"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/resolver"
	"github.com/arthur-debert/dopatch/pkg/types"
	"github.com/arthur-debert/dopatch/pkg/ui"
	"github.com/arthur-debert/dopatch/pkg/ui/progress"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	verbosity  int
	configFile string
	format     string
	repository string
	cacheDir   string
}

// overrides maps the flags that were set to their config keys.
func (g *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("format") {
		out["output.format"] = g.format
	}
	if flags.Changed("repository") {
		out["repository.url"] = g.repository
	}
	if flags.Changed("cache-dir") {
		out["cache.dir"] = g.cacheDir
	}
	return out
}

// env is what a command needs once flags and config are resolved.
type env struct {
	cfg      *config.Config
	fs       types.FS
	renderer ui.Renderer
	resolver *resolver.Resolver
}

func loadEnv(cmd *cobra.Command, g *globalFlags) (*env, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p, config.LoadOptions{
		File:      g.configFile,
		Overrides: g.overrides(cmd),
	})
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("repository", cfg.Repository.URL).
		Str("cache", cfg.Cache.Dir).
		Str("format", format.String()).
		Msg("Environment loaded")

	return &env{cfg: cfg, fs: filesystem.NewOS(), renderer: renderer}, nil
}

// artifacts returns the resolver for the configured repository, creating it
// on first use.
func (e *env) artifacts() (*resolver.Resolver, error) {
	if e.resolver != nil {
		return e.resolver, nil
	}
	if e.cfg.Repository.URL == "" {
		return nil, errors.New(errors.ErrConfigValid, MsgErrNoRepository)
	}

	var listener resolver.TransferListener = resolver.NewLogListener()
	if ui.DetectFormat(os.Stderr) == ui.FormatTerminal {
		listener = resolver.Listeners(listener, progress.New(os.Stderr))
	}

	opener := repository.NewOpener(e.fs, repository.WithUserAgent(e.cfg.Repository.UserAgent))
	r, err := resolver.New(e.cfg.Endpoint(),
		resolver.WithFS(e.fs),
		resolver.WithOpener(opener),
		resolver.WithExtension(e.cfg.Repository.Extension),
		resolver.WithTimeout(e.cfg.Resolver.Timeout),
		resolver.WithListener(listener),
	)
	if err != nil {
		return nil, err
	}
	e.resolver = r
	return r, nil
}

func (e *env) planner() (*patch.Planner, error) {
	r, err := e.artifacts()
	if err != nil {
		return nil, err
	}
	return patch.NewPlanner(r, e.fs), nil
}

func (e *env) diffOptions(cmd *cobra.Command) []manifest.DiffOption {
	include := e.cfg.Diff.IncludeUnchanged
	if cmd.Flags().Changed("unchanged") {
		include, _ = cmd.Flags().GetBool("unchanged")
	}
	return []manifest.DiffOption{manifest.WithUnchanged(include)}
}

func (e *env) close() {
	if e.resolver != nil {
		if err := e.resolver.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resolver")
		}
	}
}

// loadManifest reads a manifest from a .manifest file, a local archive or a
// coordinate, in that order.
func (e *env) loadManifest(cmd *cobra.Command, source string) (*manifest.Manifest, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		if strings.HasSuffix(source, manifest.FileExtension) {
			return patch.LoadBaseline(e.fs, source)
		}
		return manifest.BuildFile(e.fs, archiveIdentity(source), source)
	}

	id, err := identity.Parse(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "%q is neither a file nor a name:version coordinate", source)
	}
	pl, err := e.planner()
	if err != nil {
		return nil, err
	}
	_, m, err := pl.Target(cmd.Context(), id)
	return m, err
}

// archiveIdentity reads "name-version.ext" from an archive file name and
// returns a zero identity when the name does not carry one.
func archiveIdentity(path string) identity.Identity {
	id, err := identity.Parse(filepath.Base(path))
	if err != nil {
		return identity.Identity{}
	}
	return id
}
