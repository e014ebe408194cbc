package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/engine"
	"github.com/voxelop/worldopt/internal/store"
	"github.com/voxelop/worldopt/internal/world"
)

// OptimizeOptions holds flags for the optimize command.
type OptimizeOptions struct {
	*RootOptions
	Out                string
	Catalog            string
	ConfigPath         string
	NoCompact          bool
	LightRadiusMax     float64
	LightBrightnessMax float64
	ZeroPhysicsWeight  bool
	SkipVerify         bool

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens engine.RunTokenGenerator
}

// OptimizeReport is the optimize command's output payload: the engine
// run report plus the file-level before/after facts.
type OptimizeReport struct {
	engine.Result

	Input      string `json:"input"`
	Output     string `json:"output"`
	InputSize  int64  `json:"input_size"`
	OutputSize int64  `json:"output_size"`
	Verified   bool   `json:"verified"`
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptimizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "optimize <world-file>",
		Short: "Optimize a world file",
		Long: `Optimize a saved world file.

Decodes the world container, freezes loose physics bodies on wheel and
sphere bricks, turns off light shadow casting and clamps light bounds,
compacts the revision history to a single snapshot, and writes the
result to a new container. The source file is never modified.

The output is readback-verified by default: the written container is
re-opened and re-decoded, and its content digest must match the
optimized in-memory world.

Example:
  worldopt optimize garage.world
  worldopt optimize garage.world --out lean.world --no-compact`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output path (default <world-file>.optimized)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE shape catalog overriding the built-in one")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file (flags win)")
	cmd.Flags().BoolVar(&opts.NoCompact, "no-compact", false, "keep the full revision history")
	cmd.Flags().Float64Var(&opts.LightRadiusMax, "light-radius-max", engine.DefaultLightRadiusMax, "light radius clamp")
	cmd.Flags().Float64Var(&opts.LightBrightnessMax, "light-brightness-max", engine.DefaultLightBrightnessMax, "light brightness clamp")
	cmd.Flags().BoolVar(&opts.ZeroPhysicsWeight, "zero-physics-weight", false, "also zero wheel engine weight on physics grids")
	cmd.Flags().BoolVar(&opts.SkipVerify, "skip-verify", false, "skip readback verification of the output")

	return cmd
}

func runOptimize(opts *OptimizeOptions, srcPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	configureLogging(opts.Verbose)

	if opts.ConfigPath != "" {
		cfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		applyConfig(cfg, opts, cmd.Flags())
	}

	outPath := opts.Out
	if outPath == "" {
		outPath = srcPath + ".optimized"
	}
	if samePath(srcPath, outPath) {
		msg := "output path must differ from the input"
		_ = formatter.Error(ErrCodeEncode, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	cat := catalog.Default()
	if opts.Catalog != "" {
		var err error
		cat, err = catalog.Load(opts.Catalog)
		if err != nil {
			_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("opening world", "path", srcPath)
	src, err := store.Open(srcPath)
	if err != nil {
		_ = formatter.Error(ErrCodeOpen, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open world", err)
	}
	defer src.Close()

	w, err := src.Decode(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeDecode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to decode world", err)
	}
	inputSize, err := src.FileSize()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to stat world", err)
	}
	formatter.VerboseLog("Decoded %s: %d grids, %d bricks", w.Name, len(w.Grids), w.BrickCount())

	pipelineOpts := []engine.Option{
		engine.WithCatalog(cat),
		engine.WithCompaction(!opts.NoCompact),
		engine.WithLightRadiusMax(opts.LightRadiusMax),
		engine.WithLightBrightnessMax(opts.LightBrightnessMax),
		engine.WithZeroPhysicsGridWeight(opts.ZeroPhysicsWeight),
	}
	if opts.Tokens != nil {
		pipelineOpts = append(pipelineOpts, engine.WithRunTokens(opts.Tokens))
	}

	result, err := engine.New(pipelineOpts...).Run(ctx, w)
	if err != nil {
		if engine.IsIntegrityError(err) {
			_ = formatter.Error(ErrCodePipeline, err.Error(), nil)
			return WrapExitError(ExitFailure, "optimization failed", err)
		}
		return WrapExitError(ExitCommandError, "optimization failed", err)
	}

	report := &OptimizeReport{
		Result:    *result,
		Input:     srcPath,
		Output:    outPath,
		InputSize: inputSize,
	}

	// Re-running the tool overwrites its own previous output; only the
	// source path is protected, by the distinct-path check above.
	dst, err := store.Create(outPath, true)
	if err != nil {
		_ = formatter.Error(ErrCodeEncode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to create output", err)
	}
	if err := dst.Encode(ctx, w); err != nil {
		dst.Close()
		_ = formatter.Error(ErrCodeEncode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to encode output", err)
	}
	if report.OutputSize, err = dst.FileSize(); err != nil {
		dst.Close()
		return WrapExitError(ExitCommandError, "failed to stat output", err)
	}
	if err := dst.Close(); err != nil {
		return WrapExitError(ExitCommandError, "failed to close output", err)
	}

	if !opts.SkipVerify {
		if err := verifyReadback(ctx, outPath, result.DigestAfter); err != nil {
			_ = formatter.Error(ErrCodeVerify, err.Error(), nil)
			return WrapExitError(ExitFailure, "readback verification failed", err)
		}
		report.Verified = true
		slog.Info("readback verified", "path", outPath)
	}

	return outputOptimizeReport(formatter, report)
}

// verifyReadback re-opens the written container and proves it decodes
// back to the world that was just encoded.
func verifyReadback(ctx context.Context, path, wantDigest string) error {
	c, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("reopen output: %w", err)
	}
	defer c.Close()

	w, err := c.Decode(ctx)
	if err != nil {
		return fmt.Errorf("re-decode output: %w", err)
	}
	digest, err := world.DigestWorld(w)
	if err != nil {
		return fmt.Errorf("digest output: %w", err)
	}
	if digest != wantDigest {
		return fmt.Errorf("output digest %s does not match optimized world %s", digest, wantDigest)
	}
	return nil
}

func outputOptimizeReport(f *OutputFormatter, r *OptimizeReport) error {
	if f.Format == "json" {
		return f.SuccessJSON(r)
	}

	fmt.Fprintf(f.Writer, "Optimized %s -> %s\n", r.Input, r.Output)
	fmt.Fprintf(f.Writer, "  run:                %s\n", r.RunToken)
	fmt.Fprintf(f.Writer, "  grids:              %d (%d physics)\n", r.Grids, r.PhysicsGrids)
	fmt.Fprintf(f.Writer, "  bricks:             %d (%d wheels, %d spheres)\n", r.Bricks, r.Wheels, r.Spheres)
	fmt.Fprintf(f.Writer, "  frozen bricks:      %d\n", r.FrozenBricks)
	fmt.Fprintf(f.Writer, "  zeroed mass:        %d\n", r.ZeroedMass)
	fmt.Fprintf(f.Writer, "  zeroed engines:     %d\n", r.ZeroedEngines)
	fmt.Fprintf(f.Writer, "  shadows off:        %d\n", r.ShadowsOff)
	fmt.Fprintf(f.Writer, "  clamped lights:     %d\n", r.ClampedLights)
	if r.Compacted {
		fmt.Fprintf(f.Writer, "  revisions dropped:  %d\n", r.DiscardedRevisions)
	} else {
		fmt.Fprintln(f.Writer, "  revisions dropped:  0 (compaction disabled)")
	}
	fmt.Fprintf(f.Writer, "  size:               %s -> %s\n", formatBytes(r.InputSize), formatBytes(r.OutputSize))
	if r.Verified {
		fmt.Fprintln(f.Writer, "  readback:           verified")
	} else {
		fmt.Fprintln(f.Writer, "  readback:           skipped")
	}
	return nil
}

// samePath reports whether two paths name the same file, resolving
// relative paths but not symlinks.
func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}

// configureLogging sets the default slog handler for a command run.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
