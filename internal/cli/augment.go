package cli

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"segaug/internal/augment"
	"segaug/internal/config"
	segimage "segaug/internal/image"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type augmentOpts struct {
	pipeline string
	image    string
	label    string
	flow     string
	out      string
	runID    string
	samples  int
	workers  int
	seed     uint64
	seedSet  bool
}

func newAugmentCmd() *cobra.Command {
	var opts augmentOpts

	cmd := &cobra.Command{
		Use:   "augment",
		Short: "Write augmented samples of an image/label pair",
		Long: `Runs the pipeline described by --config over the image and label
--samples times and writes each result as PNG. With --flow the flow field joins
the group as its third element and is written as a 16-bit flow PNG. A pipeline
ending in normalize is inverted before writing so samples stay viewable.
Sample i draws from its own generator seeded with seed+i, so output is
reproducible for a fixed seed regardless of --workers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			return runAugment(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pipeline, "config", "c", "", "pipeline TOML file (required)")
	cmd.Flags().StringVar(&opts.image, "image", "", "input image (required)")
	cmd.Flags().StringVar(&opts.label, "label", "", "input label mask (required)")
	cmd.Flags().StringVar(&opts.flow, "flow", "", "optional 16-bit optical flow image")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "augmented", "output directory")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "output subdirectory (default: random UUID)")
	cmd.Flags().IntVarP(&opts.samples, "samples", "n", 4, "number of samples to write")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 4, "samples generated in parallel")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "base seed (default: pipeline file seed)")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("image")
	cmd.MarkFlagRequired("label")

	return cmd
}

func runAugment(cmd *cobra.Command, opts augmentOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if opts.samples < 1 {
		return fmt.Errorf("--samples must be at least 1")
	}
	if !segimage.IsSupportedFormat(opts.image) || !segimage.IsSupportedFormat(opts.label) ||
		(opts.flow != "" && !segimage.IsSupportedFormat(opts.flow)) {
		return fmt.Errorf("unsupported input format; want one of %v", segimage.SupportedFormats())
	}

	f, err := config.Load(opts.pipeline)
	if err != nil {
		return err
	}
	pipeline, err := f.Pipeline()
	if err != nil {
		return err
	}
	seed := f.Seed
	if opts.seedSet {
		seed = opts.seed
	}
	logger.Debug("Loaded pipeline", "path", opts.pipeline, "stages", len(pipeline), "seed", seed)

	img, err := segimage.Load(opts.image, segimage.KindColor)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	lbl, err := segimage.Load(opts.label, segimage.KindLabel)
	if err != nil {
		return fmt.Errorf("load label: %w", err)
	}
	group := augment.Group{img, lbl}
	if opts.flow != "" {
		flow, err := segimage.Load(opts.flow, segimage.KindFlow)
		if err != nil {
			return fmt.Errorf("load flow: %w", err)
		}
		group = append(group, flow)
	}
	logger.Debug("Loaded group", "elements", len(group), "image", img.Shape(), "label", lbl.Shape())

	runID := opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	dir := filepath.Join(opts.out, runID)
	if err := ensureDir(dir); err != nil {
		return err
	}

	prog := newProgress(logger)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.workers))
	for i := 0; i < opts.samples; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeSample(pipeline, group, seed+uint64(i), dir, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Wrote %d samples", opts.samples))
	logger.Info("Output", "dir", dir)
	return nil
}

// writeSample augments one copy of the group and writes it to dir. Inputs are
// shared between workers and only read.
func writeSample(p augment.Pipeline, group augment.Group, seed uint64, dir string, i int) error {
	rng := rand.New(rand.NewPCG(seed, seed))
	out, err := p.Apply(rng, group)
	if err != nil {
		return fmt.Errorf("sample %d: %w", i, err)
	}
	out, err = denormalized(p, out)
	if err != nil {
		return fmt.Errorf("sample %d: %w", i, err)
	}

	name := func(suffix string) string {
		return filepath.Join(dir, fmt.Sprintf("%04d_%s.png", i, suffix))
	}
	if err := segimage.SavePNG(name("image"), out[0]); err != nil {
		return fmt.Errorf("sample %d: %w", i, err)
	}
	if err := segimage.SaveLabelPNG(name("label"), out[1]); err != nil {
		return fmt.Errorf("sample %d: %w", i, err)
	}
	if len(out) > 2 {
		if err := segimage.SaveFlowPNG(name("flow"), out[2]); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

// denormalized maps the output of a pipeline whose last stage is Normalize
// back to the input value range.
func denormalized(p augment.Pipeline, out augment.Group) (augment.Group, error) {
	if len(p) == 0 {
		return out, nil
	}
	norm, ok := p[len(p)-1].(augment.Normalize)
	if !ok {
		return out, nil
	}
	res := make(augment.Group, len(out))
	for i, img := range out {
		d, err := augment.Denormalize(img, norm.Mean[i], norm.Std[i])
		if err != nil {
			return nil, fmt.Errorf("denormalize element %d: %w", i, err)
		}
		res[i] = d
	}
	return res, nil
}
