package dopatch

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build and plan file-level patches from published artifacts"
	MsgResolveShort    = "Download and verify an artifact into the local cache"
	MsgVersionsShort   = "List the published versions of an artifact"
	MsgManifestShort   = "Print the manifest of an archive or artifact"
	MsgDiffShort       = "Diff two manifests"
	MsgPlanShort       = "Plan the patch from a baseline to a release"
	MsgGenConfigShort  = "Print or write the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgManifestWritten = "Wrote manifest to %s"
	MsgBaselineSaved   = "Saved baseline to %s"
	MsgConfigWritten   = "Wrote configuration to %s"
	MsgLogFile         = "log file: %s"

	// Error messages
	MsgErrNoRepository = "no repository configured: set repository.url or pass --repository"
	MsgErrConfigExists = "config file %s already exists (use --force to overwrite)"
	MsgErrNoCommand    = "no command specified"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (default $XDG_CONFIG_HOME/dopatch/dopatch.toml)"
	MsgFlagFormat     = "Output format: auto, term, text, json or yaml"
	MsgFlagRepository = "Repository URL or directory, overrides repository.url"
	MsgFlagCacheDir   = "Local artifact cache, overrides cache.dir"
	MsgFlagOutput     = "Write the manifest to this file instead of printing it"
	MsgFlagUnchanged  = "Include UNCHANGED records"
	MsgFlagBaseline   = "Baseline manifest of the installed tree"
	MsgFlagLatest     = "Treat the argument as a name and plan its latest version"
	MsgFlagSave       = "Save the planned release's manifest as the new baseline"
	MsgFlagWrite      = "Write config to the user config file instead of stdout"
	MsgFlagForce      = "Overwrite an existing config file"
	MsgFlagEffective  = "Render the resolved configuration instead of the commented defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/resolve-long.txt
	msgResolveLongRaw string
	MsgResolveLong    = strings.TrimSpace(msgResolveLongRaw)

	//go:embed msgs/resolve-example.txt
	msgResolveExampleRaw string
	MsgResolveExample    = strings.TrimRight(msgResolveExampleRaw, "\n")

	//go:embed msgs/manifest-long.txt
	msgManifestLongRaw string
	MsgManifestLong    = strings.TrimSpace(msgManifestLongRaw)

	//go:embed msgs/manifest-example.txt
	msgManifestExampleRaw string
	MsgManifestExample    = strings.TrimRight(msgManifestExampleRaw, "\n")

	//go:embed msgs/diff-long.txt
	msgDiffLongRaw string
	MsgDiffLong    = strings.TrimSpace(msgDiffLongRaw)

	//go:embed msgs/diff-example.txt
	msgDiffExampleRaw string
	MsgDiffExample    = strings.TrimRight(msgDiffExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
