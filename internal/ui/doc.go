// Package ui renders wolctl's non-interactive command output.
//
// Subcommands such as "wolctl list" or "wolctl wake" print through a Printer,
// which writes either styled lipgloss output sized to the terminal or plain
// JSON when --format json is given:
//
//	p := ui.NewPrinter(cmd.OutOrStdout(), ui.FormatDetailed)
//	if err := p.PrintMachines(machines); err != nil {
//	    return err
//	}
//	_ = p.PrintSuccess("Wake packet sent", ui.Detail{Key: "MAC", Value: mac})
//
// Colors are lipgloss.AdaptiveColor values, so output follows the dark mode
// flag managed by the theme package.
package ui
