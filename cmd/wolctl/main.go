// Wolctl is a terminal client for a wolapp wake-on-LAN server.
//
// It lists, adds, deletes and wakes the machines registered on the server,
// shows the server's ARP table and finds servers on the local network over
// mDNS.
//
// Usage:
//
//	wolctl [command] [flags]
//
// Running without arguments opens the full-screen client.
// See 'wolctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/ui"
	"github.com/wolapp/wolctl/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		format, ferr := ui.ParseFormat(outputFormat)
		if ferr != nil {
			format = ui.FormatDetailed
		}
		ui.NewPrinter(os.Stderr, format).PrintError("Error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wolctl",
	Short: "Wake-on-LAN client for wolapp",
	Long: `A terminal client for a wolapp server.

Manage the machines registered on the server, wake them, and browse the
server's ARP table to find hardware addresses.

If no command is specified, the interactive client will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("wolctl {{.Version}}\n")
	rootCmd.PersistentPreRunE = setup

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wolctl %s\n", version.Full())
	},
}
