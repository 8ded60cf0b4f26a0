package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wolapp/wolctl/internal/config"
	"github.com/wolapp/wolctl/internal/discovery"
	"github.com/wolapp/wolctl/internal/logging"
	"github.com/wolapp/wolctl/internal/macaddr"
	"github.com/wolapp/wolctl/internal/theme"
	"github.com/wolapp/wolctl/internal/tui"
	"github.com/wolapp/wolctl/internal/ui"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// Global flags
var (
	serverURL      string
	requestTimeout time.Duration
	outputFormat   string
	logLevel       string
	logFile        string
	startRoute     string
)

// Discover flags
var (
	discoverWait  time.Duration
	discoverFirst bool
	discoverSave  int
)

// Set up by setup before any command runs.
var (
	registry *config.Registry
	client   *wolapi.Client
	printer  *ui.Printer
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "wolapp server URL (default from $"+config.ServerEnvVar+" or config)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "API request timeout (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default stderr, or wolctl.log in the config dir for the interactive client)")
	rootCmd.Flags().StringVar(&startRoute, "route", "/", "Screen to open: /, /add, /add?mac=..., /arp")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(arpCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the config and builds the logger, client and printer.
func setup(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	registry = reg
	theme.FromRegistry(reg)

	output := logFile
	if output == "" && !cmd.HasParent() {
		if output, err = defaultLogFile(); err != nil {
			return err
		}
	}
	if err := logging.Initialize(logLevel, output); err != nil {
		return err
	}

	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	printer = ui.NewPrinter(cmd.OutOrStdout(), format)

	server := reg.ResolveServer(serverURL)
	client = wolapi.NewClient(server)
	timeout := requestTimeout
	if timeout <= 0 {
		timeout = reg.RequestTimeout()
	}
	client.SetTimeout(timeout)

	logging.Debug("wolctl starting",
		zap.String("command", cmd.Name()),
		zap.String("server", client.BaseURL),
		zap.Duration("timeout", timeout),
	)
	return nil
}

// defaultLogFile keeps logs off the terminal while the interactive client
// owns it.
func defaultLogFile() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "wolctl.log"), nil
}

func runUI(cmd *cobra.Command, args []string) error {
	route, err := tui.ParseRoute(startRoute)
	if err != nil {
		return err
	}
	logging.Info("starting interactive client", zap.String("route", route.String()))
	return tui.Run(client, route, client.BaseURL)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered machines",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machines, err := client.ListMachines(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list machines: %w", err)
		}
		return printer.PrintMachines(machines)
	},
}

var addCmd = &cobra.Command{
	Use:   "add NAME MAC",
	Short: "Register a machine",
	Example: `  wolctl add desktop aa:bb:cc:dd:ee:ff

  # add the machine you are on, using the address the server sees
  wolctl me`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine := wolapi.Machine{ID: args[0], MAC: args[1]}
		if err := client.AddMachine(cmd.Context(), machine); err != nil {
			return fmt.Errorf("failed to add machine: %w", err)
		}
		return printer.PrintSuccess("machine added",
			ui.Detail{Key: "Name", Value: machine.ID},
			ui.Detail{Key: "MAC", Value: macaddr.Normalize(machine.MAC)},
		)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a registered machine",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteMachine(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		return printer.PrintSuccess("machine deleted", ui.Detail{Key: "Name", Value: args[0]})
	},
}

var wakeCmd = &cobra.Command{
	Use:   "wake NAME|MAC",
	Short: "Send a wake-on-LAN packet",
	Long: `Ask the server to send a wake-on-LAN packet.

The argument is a hardware address, or the name of a registered machine.`,
	Example: `  wolctl wake desktop
  wolctl wake aa:bb:cc:dd:ee:ff`,
	Args: cobra.ExactArgs(1),
	RunE: runWake,
}

func runWake(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := args[0]

	mac := target
	if !macaddr.Validate(target) {
		machines, err := client.ListMachines(ctx)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", target, err)
		}
		machine, ok := wolapi.FindMachine(machines, target)
		if !ok {
			return fmt.Errorf("no machine named %q (see 'wolctl list')", target)
		}
		mac = machine.MAC
	}

	if err := client.WakeMachine(ctx, mac); err != nil {
		return fmt.Errorf("failed to wake %s: %w", target, err)
	}
	return printer.PrintSuccess("wake packet sent",
		ui.Detail{Key: "Target", Value: target},
		ui.Detail{Key: "MAC", Value: macaddr.Normalize(mac)},
	)
}

var arpCmd = &cobra.Command{
	Use:   "arp",
	Short: "Show the server's ARP table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := client.ArpTable(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch arp table: %w", err)
		}
		return printer.PrintArp(rows)
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show this machine's addresses as the server sees them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client.ArpSelf(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to look up own addresses: %w", err)
		}
		return printer.PrintSelf(info)
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find wolapp servers on the local network",
	Long: `Browse mDNS for wolapp servers (` + discovery.ServiceType + `).

Found servers are remembered in the config file. Use --save N to make the
Nth server the default.`,
	Example: `  # Browse for 5 seconds (default)
  wolctl discover

  # Use the first server that answers
  wolctl discover --first --save 1`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverWait, "wait", 0, "How long to browse (default from config)")
	discoverCmd.Flags().BoolVar(&discoverFirst, "first", false, "Stop at the first server found")
	discoverCmd.Flags().IntVar(&discoverSave, "save", 0, "Save the Nth server found as the default")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.Timeout = registry.DiscoverTimeout()
	if discoverWait > 0 {
		scanner.Timeout = discoverWait
	}
	ctx := cmd.Context()

	if !printer.JSON() {
		printer.Println(fmt.Sprintf("Browsing for wolapp servers (%s)...", scanner.Timeout))
	}

	var servers []*discovery.Server
	if discoverFirst {
		server, err := scanner.First(ctx)
		if err != nil {
			return err
		}
		servers = []*discovery.Server{server}
	} else {
		found, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		servers = found
	}

	if len(servers) == 0 {
		return errors.New("no wolapp servers found; try a longer --wait or pass --server")
	}
	if err := printer.PrintServers(servers); err != nil {
		return err
	}

	for _, s := range servers {
		registry.RememberServer(s.BaseURL(), s.Instance)
	}
	if discoverSave > 0 {
		if discoverSave > len(servers) {
			return fmt.Errorf("--save %d: only %d server(s) found", discoverSave, len(servers))
		}
		registry.Server = servers[discoverSave-1].BaseURL()
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if discoverSave > 0 {
		return printer.PrintSuccess("default server saved", ui.Detail{Key: "Server", Value: registry.Server})
	}
	return nil
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the colour scheme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			var err error
			switch args[0] {
			case "dark":
				err = theme.Set(true)
			case "light":
				err = theme.Set(false)
			case "toggle":
				_, err = theme.Toggle()
			default:
				return fmt.Errorf("unknown theme %q (use dark, light or toggle)", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to save theme: %w", err)
			}
		}
		return printer.PrintSuccess("theme", ui.Detail{Key: "Theme", Value: theme.Name()})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if printer.JSON() {
			return printer.PrintJSON(map[string]any{
				"path":             path,
				"server":           client.BaseURL,
				"request_timeout":  client.HTTPClient.Timeout.String(),
				"discover_timeout": registry.DiscoverTimeout().String(),
				"theme":            theme.Name(),
				"known_servers":    registry.KnownServers,
			})
		}
		details := []ui.Detail{
			{Key: "File", Value: path},
			{Key: "Server", Value: client.BaseURL},
			{Key: "Request timeout", Value: client.HTTPClient.Timeout.String()},
			{Key: "Discover timeout", Value: registry.DiscoverTimeout().String()},
			{Key: "Theme", Value: theme.Name()},
			{Key: "Known servers", Value: strconv.Itoa(len(registry.KnownServers))},
		}
		return printer.PrintSuccess("configuration", details...)
	},
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server URL",
	Short: "Save the default server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry.Server = wolapi.NewClient(args[0]).BaseURL
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		return printer.PrintSuccess("default server saved", ui.Detail{Key: "Server", Value: registry.Server})
	},
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
}
