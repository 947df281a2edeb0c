package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tracktoast/tracktoast/internal/config"
	"github.com/tracktoast/tracktoast/internal/display"
	"github.com/tracktoast/tracktoast/internal/geometry"
	"github.com/tracktoast/tracktoast/internal/logging"
	"github.com/tracktoast/tracktoast/internal/singleinstance"
	"github.com/tracktoast/tracktoast/internal/updater"
	"github.com/tracktoast/tracktoast/internal/versioncheck"
)

var (
	version = "1.7.2"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "tracktoast",
	Short: "Tracktoast",
	Long:  `Tracktoast - now-playing toast notifications for the desktop`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the toast daemon",
	Run: func(cmd *cobra.Command, args []string) {
		runDaemon()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Tracktoast v%s\n", version)
	},
}

var (
	monitorsFormat string

	monitorsCmd = &cobra.Command{
		Use:   "monitors",
		Short: "Show the current monitor configuration and toast placement",
		Run: func(cmd *cobra.Command, args []string) {
			showMonitors()
		},
	}
)

var (
	installUpdate bool

	checkUpdateCmd = &cobra.Command{
		Use:   "check-update",
		Short: "Check the release page for a newer version",
		Run: func(cmd *cobra.Command, args []string) {
			checkUpdate()
		},
	}
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the settings file with the effective values",
		Run: func(cmd *cobra.Command, args []string) {
			writeConfig()
		},
	}
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show host and configuration status",
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")

	monitorsCmd.Flags().StringVar(&monitorsFormat, "format", "text", "output format: text or yaml")
	checkUpdateCmd.Flags().BoolVar(&installUpdate, "install", false, "download and install the update when one is found")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(monitorsCmd)
	rootCmd.AddCommand(checkUpdateCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Validate()

	initLogging(cfg)
	log := logging.L("main")

	guard, err := singleinstance.Acquire()
	if err == singleinstance.ErrAlreadyRunning {
		fmt.Fprintln(os.Stderr, "tracktoast is already running")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to claim instance endpoint", "error", err)
		os.Exit(1)
	}
	defer guard.Release()

	log.Info("tracktoast started", "version", version)
	logPlacement(cfg)

	if cfg.CheckOnStart && cfg.UpdateURL != "" {
		checker := versioncheck.New(cfg.UpdateURL, version)
		outcomes := checker.Start(context.Background())
		go func() {
			outcome := <-outcomes
			switch {
			case outcome.Err != nil:
				log.Warn("startup version check failed", "error", outcome.Err)
			case outcome.Result.IsNewer:
				log.Info("a newer version is available",
					"published", outcome.Result.Version,
					"current", version,
				)
			default:
				log.Debug("no update available", "published", outcome.Result.Version)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
}

func initLogging(cfg *config.Config) {
	var out io.Writer
	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			out = logging.TeeWriter(os.Stdout, rw)
		}
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, out)
}

// logPlacement records the monitor layout and the derived toast position
// at startup, the first thing to look at when a toast comes up off-screen.
func logPlacement(cfg *config.Config) {
	log := logging.L("main")

	monitors := display.Snapshot()
	union := display.VirtualWorkArea()
	pos := display.DefaultToastPosition(geometry.Size{Width: cfg.ToastWidth, Height: cfg.ToastHeight})

	log.Info("monitor snapshot",
		"monitors", len(monitors),
		"unionWidth", union.Width(),
		"unionHeight", union.Height(),
		"toastX", pos.X,
		"toastY", pos.Y,
	)
}

// monitorReport is the monitors command output, shaped for YAML dumping.
type monitorReport struct {
	Monitors []monitorEntry `yaml:"monitors"`
	Union    rectEntry      `yaml:"union"`
	Toast    toastEntry     `yaml:"toast"`
}

type monitorEntry struct {
	WorkArea rectEntry `yaml:"work_area"`
	Scale    float64   `yaml:"scale"`
	Primary  bool      `yaml:"primary"`
}

type rectEntry struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type toastEntry struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func toRectEntry(r geometry.Rect) rectEntry {
	return rectEntry{Left: r.Left, Top: r.Top, Width: r.Width(), Height: r.Height()}
}

func showMonitors() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.Default()
	}

	monitors := display.Snapshot()
	union := geometry.Union(monitors)
	pos := display.DefaultToastPosition(geometry.Size{Width: cfg.ToastWidth, Height: cfg.ToastHeight})

	report := monitorReport{
		Union: toRectEntry(union),
		Toast: toastEntry{X: pos.X, Y: pos.Y},
	}
	for _, m := range monitors {
		report.Monitors = append(report.Monitors, monitorEntry{
			WorkArea: toRectEntry(m.WorkArea),
			Scale:    m.ScaleOrDefault(),
			Primary:  m.Primary,
		})
	}

	if monitorsFormat == "yaml" {
		out, err := yaml.Marshal(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if len(monitors) == 0 {
		fmt.Println("No monitors detected.")
		return
	}
	for i, m := range report.Monitors {
		marker := " "
		if m.Primary {
			marker = "*"
		}
		fmt.Printf("%s monitor %d: %gx%g at (%g,%g), scale %.2f\n",
			marker, i, m.WorkArea.Width, m.WorkArea.Height, m.WorkArea.Left, m.WorkArea.Top, m.Scale)
	}
	fmt.Printf("  union: %gx%g\n", report.Union.Width, report.Union.Height)
	fmt.Printf("  toast position: (%g, %g)\n", report.Toast.X, report.Toast.Y)
}

func checkUpdate() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	checker := versioncheck.New(cfg.UpdateURL, version)
	result, err := checker.Check(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
		os.Exit(1)
	}

	switch {
	case result.Version == "":
		fmt.Println("No version information published.")
	case result.IsNewer:
		fmt.Printf("Update available: v%s (running v%s)\n", result.Version, version)
	default:
		fmt.Printf("Up to date: v%s\n", version)
	}

	if !installUpdate || !result.IsNewer {
		return
	}

	u, err := updater.New(&updater.Config{ReleaseURL: cfg.ReleaseURL})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		os.Exit(1)
	}
	ctx = logging.NewContext(ctx, logging.L("updater").With("command", "check-update"))
	if err := u.UpdateTo(ctx, result.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated to v%s\n", result.Version)
}

// writeConfig persists the effective settings, seeding a fresh install
// with the defaults so the file is there to edit.
func writeConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Validate()

	if err := config.SaveTo(cfg, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", config.Path(cfgFile))
}

func showStatus() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Println("Config: not readable")
	} else {
		fmt.Println("Config: ok")
	}

	info, err := host.Info()
	if err == nil {
		fmt.Printf("Host: %s (%s %s)\n", info.Hostname, info.Platform, info.PlatformVersion)
		fmt.Printf("Uptime: %s\n", (time.Duration(info.Uptime) * time.Second).String())
	}

	fmt.Printf("Monitors: %d\n", len(display.Snapshot()))

	guard, err := singleinstance.Acquire()
	if err == singleinstance.ErrAlreadyRunning {
		fmt.Println("Daemon: running")
		return
	}
	if err == nil {
		guard.Release()
	}
	fmt.Println("Daemon: not running")
}
