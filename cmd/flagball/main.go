// Package main provides the CLI entrypoint for flagball.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/flagball/internal/config"
	"github.com/verte-zerg/flagball/internal/game"
	"github.com/verte-zerg/flagball/internal/model"
	"github.com/verte-zerg/flagball/internal/raster"
	"github.com/verte-zerg/flagball/internal/sim"
	"github.com/verte-zerg/flagball/internal/simui"
	"github.com/verte-zerg/flagball/internal/tui"
	"github.com/verte-zerg/flagball/internal/window"
)

const (
	defaultEnvFile    = ".env"
	defaultFrameTicks = 90
	chartMargin       = 10
)

var (
	physicsGravity     float64
	physicsDrag        float64
	physicsShotPower   float64
	physicsTurnRate    float64
	physicsMeterRate   float64
	physicsBounce      float64
	physicsTrailLength float64
	physicsSide        string
	physicsSeed        int64

	displayFPS     int
	displayMaxStep float64
	displayColor   bool

	envFile string
	logPath string

	simTicks int
	simStep  float64
	simHold  float64
	simRest  float64
	simSweep bool
	simWidth int
	simUI    bool

	frameTicks  int
	frameWidth  int
	frameHeight int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultConfig()
	display := model.DefaultDisplayConfig()

	rootCmd := &cobra.Command{
		Use:           "flagball",
		Short:         "Charge, aim and bounce a ball into the flag",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&physicsGravity, "gravity", defaults.Gravity, "vertical acceleration")
	flags.Float64Var(&physicsDrag, "drag", defaults.Drag, "horizontal deceleration")
	flags.Float64Var(&physicsShotPower, "shot-power", defaults.ShotPower, "launch speed at full charge (negative fires along the nozzle)")
	flags.Float64Var(&physicsTurnRate, "turn-rate", defaults.TurnRate, "aim speed in radians per second")
	flags.Float64Var(&physicsMeterRate, "meter-rate", defaults.MeterRate, "charge meter fill per second")
	flags.Float64Var(&physicsBounce, "bounce", defaults.Bounce, "velocity lost on wall contact")
	flags.Float64Var(&physicsTrailLength, "trail-length", defaults.TrailLength, "trail lifetime in seconds")
	flags.StringVar(&physicsSide, "side", defaults.Side.String(), "score row credited on a hit (left or right)")
	flags.Int64Var(&physicsSeed, "seed", 0, "target placement seed (0 picks one from the clock)")
	flags.IntVar(&displayFPS, "fps", display.FPS, "ticks per second")
	flags.Float64Var(&displayMaxStep, "max-step", display.MaxStep, "largest simulated step in seconds")
	flags.BoolVar(&displayColor, "color", display.Color, "use truecolor output in the terminal")
	flags.StringVar(&envFile, "env", defaultEnvFile, "dotenv file to load")
	flags.StringVar(&logPath, "log", "", "write debug log to a file")
	flags.Lookup("log").NoOptDefVal = config.DefaultLogPath()

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newWindowCmd())
	rootCmd.AddCommand(newSimCmd())
	rootCmd.AddCommand(newFrameCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	}
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, display, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	session := game.New(cfg, display.MaxStep)
	program := tea.NewProgram(tui.NewModel(session, display), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newWindowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Play in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runWindowCmd,
	}
}

func runWindowCmd(cmd *cobra.Command, _ []string) error {
	cfg, display, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	return window.Run(game.New(cfg, display.MaxStep), display)
}

func newSimCmd() *cobra.Command {
	script := sim.DefaultScript()
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a scripted headless session and report",
		Args:  cobra.NoArgs,
		RunE:  runSimCmd,
	}
	cmd.Flags().IntVar(&simTicks, "ticks", script.Ticks, "number of ticks to simulate")
	cmd.Flags().Float64Var(&simStep, "step", script.Step, "seconds per tick")
	cmd.Flags().Float64Var(&simHold, "hold", script.Hold, "seconds to hold charge before each shot")
	cmd.Flags().Float64Var(&simRest, "rest", script.Rest, "seconds between a shot and the next charge")
	cmd.Flags().BoolVar(&simSweep, "sweep", script.Sweep, "sweep the aim between shots")
	cmd.Flags().IntVar(&simWidth, "width", 0, "chart width (default: terminal width)")
	cmd.Flags().BoolVar(&simUI, "ui", false, "browse the results interactively")
	return cmd
}

func runSimCmd(cmd *cobra.Command, _ []string) error {
	cfg, display, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	script := sim.Script{
		Ticks: simTicks,
		Step:  simStep,
		Hold:  simHold,
		Rest:  simRest,
		Sweep: simSweep,
	}
	if err := script.Validate(); err != nil {
		return fmt.Errorf("--%w", err)
	}

	if simUI {
		program := tea.NewProgram(simui.NewModel(cfg, display.MaxStep, script), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run sim TUI: %w", err)
		}
		return nil
	}

	trace, err := sim.NewRunner(game.New(cfg, display.MaxStep), script).Run()
	if err != nil {
		return fmt.Errorf("failed to run simulation: %w", err)
	}
	width := simWidth
	if width <= 0 {
		cols, _ := raster.TerminalSize()
		width = cols - chartMargin
	}
	if err := sim.WriteReport(cmd.OutOrStdout(), trace, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Print a single rendered frame",
		Args:  cobra.NoArgs,
		RunE:  runFrameCmd,
	}
	cmd.Flags().IntVar(&frameTicks, "ticks", defaultFrameTicks, "ticks to simulate before drawing")
	cmd.Flags().IntVar(&frameWidth, "width", 0, "frame width in cells (default: terminal width)")
	cmd.Flags().IntVar(&frameHeight, "height", 0, "frame height in cells (default: terminal height)")
	return cmd
}

func runFrameCmd(cmd *cobra.Command, _ []string) error {
	cfg, display, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if frameTicks < 0 {
		return fmt.Errorf("--ticks must be >= 0")
	}
	closeLog, err := setupLogging(logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	session := game.New(cfg, display.MaxStep)
	if frameTicks > 0 {
		script := sim.DefaultScript()
		script.Ticks = frameTicks
		script.Step = 1 / float64(display.FPS)
		if _, err := sim.NewRunner(session, script).Run(); err != nil {
			return fmt.Errorf("failed to advance session: %w", err)
		}
	}

	cols, rows := raster.TerminalSize()
	if frameWidth > 0 {
		cols = frameWidth
	}
	if frameHeight > 0 {
		rows = frameHeight
	} else {
		rows--
	}
	out := cmd.OutOrStdout()
	useColor := display.Color && raster.ShouldUseColor(out, false)
	printer := raster.NewPrinter(out, cols, rows, session.Palette().Background, useColor)
	if err := printer.Render(session.BuildFrame(printer.Aspect())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		logErrf("failed to load %s: %v\n", envFile, err)
	}
	path := config.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig merges defaults, the config file, FLAGBALL_SEED and flags,
// in increasing priority.
func resolveConfig(cmd *cobra.Command) (model.Config, model.DisplayConfig, error) {
	if err := config.LoadEnv(envFile); err != nil {
		logErrf("failed to load %s: %v\n", envFile, err)
	}
	fileCfg, err := config.LoadConfig(config.ConfigPath())
	if err != nil {
		return model.Config{}, model.DisplayConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "gravity", &physicsGravity, fileCfg.Physics.Gravity)
	applyFloatConfig(cmd, "drag", &physicsDrag, fileCfg.Physics.Drag)
	applyFloatConfig(cmd, "shot-power", &physicsShotPower, fileCfg.Physics.ShotPower)
	applyFloatConfig(cmd, "turn-rate", &physicsTurnRate, fileCfg.Physics.TurnRate)
	applyFloatConfig(cmd, "meter-rate", &physicsMeterRate, fileCfg.Physics.MeterRate)
	applyFloatConfig(cmd, "bounce", &physicsBounce, fileCfg.Physics.Bounce)
	applyFloatConfig(cmd, "trail-length", &physicsTrailLength, fileCfg.Physics.TrailLength)
	applyStringConfig(cmd, "side", &physicsSide, fileCfg.Physics.Side)
	applyInt64Config(cmd, "seed", &physicsSeed, fileCfg.Physics.Seed)
	applyIntConfig(cmd, "fps", &displayFPS, fileCfg.Display.FPS)
	applyFloatConfig(cmd, "max-step", &displayMaxStep, fileCfg.Display.MaxStep)
	applyBoolConfig(cmd, "color", &displayColor, fileCfg.Display.Color)

	seed, ok, err := config.SeedFromEnv()
	if err != nil {
		return model.Config{}, model.DisplayConfig{}, err
	}
	if ok {
		applyInt64Config(cmd, "seed", &physicsSeed, &seed)
	}

	side, ok := model.ParseSide(strings.ToLower(strings.TrimSpace(physicsSide)))
	if !ok {
		return model.Config{}, model.DisplayConfig{}, fmt.Errorf("--side must be left or right")
	}

	cfg := model.DefaultConfig()
	cfg.Gravity = physicsGravity
	cfg.Drag = physicsDrag
	cfg.ShotPower = physicsShotPower
	cfg.TurnRate = physicsTurnRate
	cfg.MeterRate = physicsMeterRate
	cfg.Bounce = physicsBounce
	cfg.TrailLength = physicsTrailLength
	cfg.Side = side
	cfg.Seed = physicsSeed

	display := model.DisplayConfig{
		FPS:     displayFPS,
		MaxStep: displayMaxStep,
		Color:   displayColor,
	}
	if err := validateConfig(cfg, display); err != nil {
		return model.Config{}, model.DisplayConfig{}, err
	}
	return cfg, display, nil
}

// setupLogging routes the standard logger to path, or discards it so the
// alternate screen stays clean.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "flagball")
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	cfg := model.DefaultConfig()
	display := model.DefaultDisplayConfig()
	return fmt.Sprintf(`# flagball configuration
# Uncomment a value to enable it. CLI flags override config values.
# FLAGBALL_CONFIG overrides this file's location; FLAGBALL_SEED overrides seed.

[physics]
# gravity = %.1f          # Vertical acceleration
# drag = %.1f              # Horizontal deceleration
# shot-power = %.1f       # Launch speed at full charge
# turn-rate = %.1f         # Aim speed (rad/s)
# meter-rate = %.1f        # Charge meter fill per second
# bounce = %.1f            # Velocity lost on wall contact
# trail-length = %.1f      # Trail lifetime in seconds
# side = %q           # Score row credited on a hit (left or right)
# seed = 0                # Target placement seed (0 picks one from the clock)

[display]
# fps = %d                # Ticks per second
# max-step = %.2f         # Largest simulated step in seconds
# color = %t            # Truecolor terminal output
`,
		cfg.Gravity,
		cfg.Drag,
		cfg.ShotPower,
		cfg.TurnRate,
		cfg.MeterRate,
		cfg.Bounce,
		cfg.TrailLength,
		cfg.Side.String(),
		display.FPS,
		display.MaxStep,
		display.Color,
	)
}

func validateConfig(cfg model.Config, display model.DisplayConfig) error {
	if cfg.Drag < 0 {
		return fmt.Errorf("--drag must be >= 0")
	}
	if cfg.ShotPower == 0 {
		return fmt.Errorf("--shot-power must not be 0")
	}
	if cfg.TurnRate < 0 {
		return fmt.Errorf("--turn-rate must be >= 0")
	}
	if cfg.MeterRate <= 0 {
		return fmt.Errorf("--meter-rate must be > 0")
	}
	if cfg.Bounce < 0 {
		return fmt.Errorf("--bounce must be >= 0")
	}
	if cfg.TrailLength <= 0 {
		return fmt.Errorf("--trail-length must be > 0")
	}
	if display.FPS <= 0 {
		return fmt.Errorf("--fps must be > 0")
	}
	if display.MaxStep <= 0 {
		return fmt.Errorf("--max-step must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
