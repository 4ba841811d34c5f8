package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modelhub",
	Short: "model library management tool",
	Example: `modelhub serve
modelhub model create -l personal -n <name> -v <version> -y <type>
modelhub model list -l project -s <search> --tag <tag>
modelhub model public -i <model-id> --off
modelhub publish run -m <model-id> -w standard -r rev-001,rev-002
modelhub publish decide -a <attempt-id> --approve
modelhub project stats -p <project-name>
modelhub db migrate`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.AddCommand(serveCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
