// Package main is the CLI entry point for syscmd.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError wraps an error the user already saw as a message.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "syscmd",
	Short: "System commander - lock, log out, restart, shut down and manage interfaces",
	Long: `syscmd runs privileged system actions behind a confirmation step
and records every attempt in an audit log.

Disruptive actions (restart, shutdown, interface up/down) start a countdown
that proceeds on its own unless cancelled. Answer 'y' to run immediately,
'c' to cancel.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show platform, privileges, system summary and the selected interface",
	RunE:  runStatus,
}

var interfacesCmd = &cobra.Command{
	Use:     "interfaces",
	Aliases: []string{"ifaces"},
	Short:   "List network interfaces and their state",
	RunE:    runInterfaces,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the audit log",
	RunE:  runLog,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the computer",
	Args:  cobra.NoArgs,
	RunE:  intentRunner(domain.Lock),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out the current user",
	Args:  cobra.NoArgs,
	RunE:  intentRunner(domain.Logout),
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the computer (countdown)",
	Args:  cobra.NoArgs,
	RunE:  intentRunner(domain.Restart),
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Shut down the computer (countdown)",
	Args:  cobra.NoArgs,
	RunE:  intentRunner(domain.Shutdown),
}

var firewallCmd = &cobra.Command{
	Use:   "firewall",
	Short: "Open the firewall settings",
	Args:  cobra.NoArgs,
	RunE:  intentRunner(domain.OpenFirewallSettings),
}

var ifaceCmd = &cobra.Command{
	Use:   "iface",
	Short: "Enable or disable a network interface (countdown)",
}

var ifaceUpCmd = &cobra.Command{
	Use:   "up [name]",
	Short: "Enable an interface (defaults to --interface)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selectArg(args)
		return runIntent(cmd.Context(), domain.InterfaceUp(""))
	},
}

var ifaceDownCmd = &cobra.Command{
	Use:   "down [name]",
	Short: "Disable an interface (defaults to --interface)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selectArg(args)
		return runIntent(cmd.Context(), domain.InterfaceDown(""))
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [name]",
	Short: "Poll an interface and print its state until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	assumeYes  bool
	ifaceFlag  string
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to the confirmation")
	rootCmd.PersistentFlags().StringVarP(&ifaceFlag, "interface", "i", "", "Network interface to select (overrides SYSCMD_INTERFACE)")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	ifaceCmd.AddCommand(ifaceUpCmd)
	ifaceCmd.AddCommand(ifaceDownCmd)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(shutdownCmd)
	rootCmd.AddCommand(firewallCmd)
	rootCmd.AddCommand(ifaceCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func intentRunner(build func() domain.Intent) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runIntent(cmd.Context(), build())
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// selectArg makes a positional interface name the selection, so it is
// validated and tracked by the poller like --interface.
func selectArg(args []string) {
	if name := firstArg(args); name != "" {
		ifaceFlag = name
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func runIntent(parent context.Context, intent domain.Intent) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	answers := answerSource(ctx, assumeYes, os.Stdin)

	var outcome *domain.ActionOutcome
	var actionErr error
	for ev := range a.orch.RequestAction(ctx, intent, answers) {
		switch ev.Kind {
		case domain.EventTick:
			printTick(os.Stdout, ev)
		case domain.EventResolved:
			printResolved(os.Stdout, ev)
		case domain.EventMessage:
			printMessage(os.Stdout, ev.Message)
		case domain.EventCompleted:
			outcome, actionErr = ev.Outcome, ev.Err
		}
	}

	if outcome != nil && outcome.Executed && outcome.Result != nil && outcome.Result.Succeeded {
		fmt.Printf("%s: done (%s)\n", outcome.Intent.Title(), outcome.Result.Command)
		if outcome.Snapshot != nil {
			printSnapshot(os.Stdout, *outcome.Snapshot)
		}
	}

	if actionErr != nil && outcome != nil && outcome.Message != nil {
		return reportedError{actionErr}
	}
	return actionErr
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sys := a.orch.SystemSummary(ctx)

	fmt.Println("\n=== syscmd Status ===")
	fmt.Printf("Platform: %s\n", a.orch.Profile())
	fmt.Printf("Mode: %s\n", a.rt.Mode)
	if !a.orch.Elevated() {
		fmt.Println("        Interface, restart and shutdown actions may fail without elevation")
	}
	fmt.Printf("Audit log: %s (%s)\n", a.auditPath, a.cfg.AuditBackend)

	fmt.Println("\nSystem:")
	fmt.Printf("  CPU:  %s\n", sys.CPUDescription)
	fmt.Printf("  RAM:  %s\n", sys.RAMTotal)
	fmt.Printf("  Disk: %s total, %s used, %s free\n", sys.DiskTotal, sys.DiskUsed, sys.DiskFree)

	fmt.Println("\nSelected interface:")
	if a.orch.Selected() == "" {
		fmt.Println("  (none - use --interface or SYSCMD_INTERFACE)")
	} else {
		printSnapshot(os.Stdout, a.orch.CurrentSnapshot(ctx, a.orch.Selected()))
	}
	fmt.Println("=====================")
	return nil
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	names := a.orch.ListInterfaces(ctx)
	if len(names) == 0 {
		fmt.Println("No network interfaces found.")
		return nil
	}
	for _, name := range names {
		snap := a.orch.CurrentSnapshot(ctx, name)
		marker := " "
		if name == a.orch.Selected() {
			marker = "*"
		}
		fmt.Printf("%s %-20s %-8s %-16s %s\n", marker, name, snap.AdminState.Label(), snap.IPv4, snap.MAC)
	}
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	text, err := a.orch.AuditLogText()
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if text == "" {
		fmt.Println("Audit log is empty.")
		return nil
	}
	fmt.Print(text)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	selectArg(args)
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.orch.Selected() == "" {
		return domain.ErrNoInterfaceSelected
	}

	a.poller.OnUpdate(func(s domain.InterfaceSnapshot) {
		printSnapshot(os.Stdout, s)
	})
	fmt.Printf("Watching %s every %s (Ctrl-C to stop)\n", a.orch.Selected(), a.cfg.PollInterval)

	if err := a.poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("syscmd %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
