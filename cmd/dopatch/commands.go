package dopatch

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dopatch/pkg/config"
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/filesystem"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/patch"
	"github.com/arthur-debert/dopatch/pkg/paths"
	"github.com/arthur-debert/dopatch/pkg/ui/display"
)

func newResolveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <name:version>",
		Short:   MsgResolveShort,
		Long:    MsgResolveLong,
		Example: MsgResolveExample,
		GroupID: "artifacts",
		Args:    cobra.ExactArgs(1),
		RunE: runWithEnv(g, func(cmd *cobra.Command, args []string, e *env) error {
			id, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			r, err := e.artifacts()
			if err != nil {
				return err
			}

			log.Info().Str("artifact", id.Coordinate()).Msg("Resolving artifact")
			artifact, err := r.Resolve(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.renderer.RenderResult(display.FromArtifact(artifact))
		}),
	}
}

func newVersionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "versions <name>",
		Short:   MsgVersionsShort,
		GroupID: "artifacts",
		Args:    cobra.ExactArgs(1),
		RunE: runWithEnv(g, func(cmd *cobra.Command, args []string, e *env) error {
			r, err := e.artifacts()
			if err != nil {
				return err
			}
			versions, err := r.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return e.renderer.RenderResult(display.FromVersions(args[0], versions))
		}),
	}
}

func newManifestCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "manifest <archive|name:version>",
		Short:   MsgManifestShort,
		Long:    MsgManifestLong,
		Example: MsgManifestExample,
		GroupID: "artifacts",
		Args:    cobra.ExactArgs(1),
		RunE: runWithEnv(g, func(cmd *cobra.Command, args []string, e *env) error {
			m, err := e.loadManifest(cmd, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return e.renderer.RenderResult(display.FromManifest(m))
			}
			if err := manifest.WriteFile(e.fs, output, m); err != nil {
				return err
			}
			return e.renderer.RenderMessage(fmt.Sprintf(MsgManifestWritten, output))
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	return cmd
}

func newDiffCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diff <from> <to>",
		Short:   MsgDiffShort,
		Long:    MsgDiffLong,
		Example: MsgDiffExample,
		GroupID: "patches",
		Args:    cobra.ExactArgs(2),
		RunE: runWithEnv(g, func(cmd *cobra.Command, args []string, e *env) error {
			from, err := e.loadManifest(cmd, args[0])
			if err != nil {
				return err
			}
			to, err := e.loadManifest(cmd, args[1])
			if err != nil {
				return err
			}

			actions := manifest.Diff(from, to, e.diffOptions(cmd)...)
			return e.renderer.RenderResult(display.FromActions(to.Identity(), from.Identity(), actions))
		}),
	}

	cmd.Flags().Bool("unchanged", false, MsgFlagUnchanged)
	return cmd
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	var (
		baselinePath string
		latest       bool
		savePath     string
	)

	cmd := &cobra.Command{
		Use:     "plan <name:version|name>",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Example: MsgPlanExample,
		GroupID: "patches",
		Args:    cobra.ExactArgs(1),
		RunE: runWithEnv(g, func(cmd *cobra.Command, args []string, e *env) error {
			var baseline *manifest.Manifest
			if baselinePath != "" {
				var err error
				baseline, err = patch.LoadBaseline(e.fs, baselinePath)
				if err != nil {
					return err
				}
			}

			pl, err := e.planner()
			if err != nil {
				return err
			}

			var p *patch.Patch
			if latest {
				p, err = pl.PlanLatest(cmd.Context(), args[0], baseline, e.diffOptions(cmd)...)
			} else {
				var id identity.Identity
				id, err = identity.Parse(args[0])
				if err != nil {
					return err
				}
				p, err = pl.Plan(cmd.Context(), id, baseline, e.diffOptions(cmd)...)
			}
			if err != nil {
				return err
			}

			if err := e.renderer.RenderResult(display.FromPatch(p)); err != nil {
				return err
			}
			if savePath == "" {
				return nil
			}
			if err := patch.SaveBaseline(e.fs, savePath, p.Manifest); err != nil {
				return err
			}
			log.Info().Str("path", savePath).Str("artifact", p.Identity.Coordinate()).Msg("Saved baseline")
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), MsgBaselineSaved+"\n", savePath)
			return err
		}),
	}

	cmd.Flags().StringVarP(&baselinePath, "baseline", "b", "", MsgFlagBaseline)
	cmd.Flags().BoolVar(&latest, "latest", false, MsgFlagLatest)
	cmd.Flags().StringVar(&savePath, "save", "", MsgFlagSave)
	cmd.Flags().Bool("unchanged", false, MsgFlagUnchanged)
	return cmd
}

func newGenConfigCmd(g *globalFlags) *cobra.Command {
	var (
		write     bool
		force     bool
		effective bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := []byte(config.GenerateConfigContent())
			if effective {
				e, err := loadEnv(cmd, g)
				if err != nil {
					return err
				}
				defer e.close()
				content, err = config.Render(e.cfg)
				if err != nil {
					return err
				}
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			target := g.configFile
			if target == "" {
				p, err := paths.New()
				if err != nil {
					return err
				}
				target = p.ConfigFile()
			}
			if _, err := os.Stat(target); err == nil && !force {
				return errors.Newf(errors.ErrFileWrite, MsgErrConfigExists, target).WithDetail("path", target)
			}
			if err := filesystem.WriteFileAtomic(filesystem.NewOS(), target, content); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", target)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}
