package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{annotationNoServices: ""},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("pnld version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
