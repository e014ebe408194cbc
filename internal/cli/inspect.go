package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/engine"
	"github.com/voxelop/worldopt/internal/store"
	"github.com/voxelop/worldopt/internal/world"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Catalog string
}

// InspectReport summarizes a world container without mutating it.
type InspectReport struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	FileSize int64  `json:"file_size"`

	Grids        int `json:"grids"`
	PhysicsGrids int `json:"physics_grids"`
	Bricks       int `json:"bricks"`
	Wheels       int `json:"wheels"`
	Spheres      int `json:"spheres"`
	Others       int `json:"others"`
	Joints       int `json:"joints"`
	Lights       int `json:"lights"`
	Revisions    int `json:"revisions"`

	Digest   string              `json:"digest"`
	Sections []store.SectionSize `json:"sections"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <world-file>",
		Short: "Summarize a world file without modifying it",
		Long: `Decode a world container and print its shape: grid, brick, joint,
light, and revision counts, classification tallies, per-section sizes,
and the content digest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE shape catalog overriding the built-in one")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	configureLogging(opts.Verbose)

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

	c, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeOpen, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open world", err)
	}
	defer c.Close()

	w, err := c.Decode(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeDecode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to decode world", err)
	}

	report := &InspectReport{
		Path:      path,
		Name:      w.Name,
		Grids:     len(w.Grids),
		Bricks:    w.BrickCount(),
		Joints:    len(w.Joints),
		Revisions: len(w.Revisions),
	}

	cls := engine.Classify(w, cat)
	report.PhysicsGrids = len(w.Grids) - cls.MainGrids()
	report.Wheels = cls.Wheels()
	report.Spheres = cls.Spheres()
	report.Others = cls.Others()

	for _, g := range w.Grids {
		for _, b := range g.Bricks {
			if b.Light != nil {
				report.Lights++
			}
		}
	}

	if report.Digest, err = world.DigestWorld(w); err != nil {
		return WrapExitError(ExitCommandError, "failed to digest world", err)
	}
	if report.FileSize, err = c.FileSize(); err != nil {
		return WrapExitError(ExitCommandError, "failed to stat world", err)
	}
	if report.Sections, err = c.SectionSizes(ctx); err != nil {
		_ = formatter.Error(ErrCodeDecode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read sections", err)
	}

	return outputInspectReport(formatter, report)
}

func outputInspectReport(f *OutputFormatter, r *InspectReport) error {
	if f.Format == "json" {
		return f.SuccessJSON(r)
	}

	fmt.Fprintf(f.Writer, "%s (%s, %s)\n", r.Path, r.Name, formatBytes(r.FileSize))
	fmt.Fprintf(f.Writer, "  grids:      %d (%d physics)\n", r.Grids, r.PhysicsGrids)
	fmt.Fprintf(f.Writer, "  bricks:     %d (%d wheels, %d spheres, %d others)\n", r.Bricks, r.Wheels, r.Spheres, r.Others)
	fmt.Fprintf(f.Writer, "  joints:     %d\n", r.Joints)
	fmt.Fprintf(f.Writer, "  lights:     %d\n", r.Lights)
	fmt.Fprintf(f.Writer, "  revisions:  %d\n", r.Revisions)
	fmt.Fprintf(f.Writer, "  digest:     %s\n", r.Digest)
	fmt.Fprintln(f.Writer, "  sections:")
	for _, s := range r.Sections {
		fmt.Fprintf(f.Writer, "    %-10s %s (%s raw)\n", s.Name, formatBytes(s.Compressed), formatBytes(s.Raw))
	}
	return nil
}
