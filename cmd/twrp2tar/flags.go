package twrp2tar

import (
	"github.com/spf13/cobra"
)

// flagsCmd lists the flags every command accepts, including those mirroring settings.
var flagsCmd = &cobra.Command{
	Use:                   "flags",
	Short:                 "Display the list of available global flags for all twrp2tar commands",
	DisableFlagsInUseLine: true,
	// overrides the root hook, no config is needed to print usage
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		hideConfigFlags(cmd.Root().PersistentFlags(), false)
	},
	PersistentPostRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Usage()
	},
}

func init() {
	flagsCmd.SetUsageTemplate(flagsUsageTemplate)
	flagsCmd.SetHelpTemplate(flagsHelpTemplate)
}

const flagsHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}{{end}}

Usage:
{{.UseLine}}

{{.Usage}}`
const flagsUsageTemplate = `Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
`
