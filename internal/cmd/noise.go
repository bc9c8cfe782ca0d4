package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/fieldforge/internal/atlas"
	"github.com/MeKo-Tech/fieldforge/internal/blend"
	"github.com/MeKo-Tech/fieldforge/internal/export"
	"github.com/MeKo-Tech/fieldforge/internal/noise"
	"github.com/MeKo-Tech/fieldforge/internal/pipeline"
	"github.com/MeKo-Tech/fieldforge/internal/worker"
)

var noiseCmd = &cobra.Command{
	Use:   "noise",
	Short: "Generate noise textures",
	Long:  `Generate layered noise textures as single images or animated frame sets.`,
	RunE:  runNoise,
}

func init() {
	rootCmd.AddCommand(noiseCmd)

	// Image flags
	noiseCmd.Flags().IntP("width", "W", 512, "Image width in pixels")
	noiseCmd.Flags().IntP("height", "H", 512, "Image height in pixels")

	// Layer A flags
	noiseCmd.Flags().String("type", "Perlin", "Noise type for layer A (Perlin, Simplex, FBM, Turbulence, Ridged, DomainWarp, 3DSlice)")
	noiseCmd.Flags().Float64("scale", 100, "Feature scale for layer A")
	noiseCmd.Flags().Int("octaves", 6, "Octave count for layer A")
	noiseCmd.Flags().Float64("persistence", 0.5, "Per-octave amplitude falloff for layer A")
	noiseCmd.Flags().Float64("lacunarity", 2.0, "Per-octave frequency growth for layer A")
	noiseCmd.Flags().Int64("seed", 42, "Deterministic seed for layer A")
	noiseCmd.Flags().Float64("power", 2.0, "Turbulence power exponent for layer A")
	noiseCmd.Flags().Float64("warp", 50, "Domain warp strength for layer A")
	noiseCmd.Flags().Float64("z-slice", 0, "Z slice position for layer A")
	noiseCmd.Flags().Float64("x-offset", 0, "X pan offset for layer A")
	noiseCmd.Flags().Float64("y-offset", 0, "Y pan offset for layer A")
	noiseCmd.Flags().Float64("z-offset", 0, "Z offset for layer A")
	noiseCmd.Flags().Float64("sensitivity", 0.1, "Offset sensitivity multiplier for layer A")
	noiseCmd.Flags().Bool("invert", false, "Invert layer A values")

	// Layer B flags
	noiseCmd.Flags().String("type-b", "None", "Noise type for layer B (None disables blending)")
	noiseCmd.Flags().Float64("scale-b", 100, "Feature scale for layer B")
	noiseCmd.Flags().Int("octaves-b", 6, "Octave count for layer B")
	noiseCmd.Flags().Float64("persistence-b", 0.5, "Per-octave amplitude falloff for layer B")
	noiseCmd.Flags().Float64("lacunarity-b", 2.0, "Per-octave frequency growth for layer B")
	noiseCmd.Flags().Int64("seed-b", 1337, "Deterministic seed for layer B")
	noiseCmd.Flags().Float64("power-b", 2.0, "Turbulence power exponent for layer B")
	noiseCmd.Flags().Float64("warp-b", 50, "Domain warp strength for layer B")
	noiseCmd.Flags().Float64("z-slice-b", 0, "Z slice position for layer B")
	noiseCmd.Flags().Float64("x-offset-b", 0, "X pan offset for layer B")
	noiseCmd.Flags().Float64("y-offset-b", 0, "Y pan offset for layer B")
	noiseCmd.Flags().Float64("z-offset-b", 0, "Z offset for layer B")
	noiseCmd.Flags().Float64("sensitivity-b", 0.1, "Offset sensitivity multiplier for layer B")
	noiseCmd.Flags().Bool("invert-b", false, "Invert layer B values")

	// Blend flags
	noiseCmd.Flags().String("blend-mode", "Mix", "Blend mode (Mix, Add, Multiply, Screen, Overlay, Min, Max)")
	noiseCmd.Flags().Float64("weight", 0.5, "Blend weight for layer B")

	// Tiling flags
	noiseCmd.Flags().Bool("seamless", true, "Make the texture tile seamlessly")
	noiseCmd.Flags().Float64("blend-band", 0.1, "Seamless blend band width as a fraction of the image extent")

	// Animation flags
	noiseCmd.Flags().Int("frames", 1, "Number of frames to render (1 for a still image)")
	noiseCmd.Flags().Float64("anim-rate", 0.05, "Z offset advance per frame")

	// Output flags
	noiseCmd.Flags().String("format", "atlas", "Multi-frame output format: atlas, sequence, or bundle")
	noiseCmd.Flags().String("atlas-mode", "AutoSquare", "Atlas grid mode (AutoSquare, RowOnly, ColumnOnly, Manual)")
	noiseCmd.Flags().Int("cols", 0, "Atlas columns (Manual mode)")
	noiseCmd.Flags().Int("rows", 0, "Atlas rows (Manual mode)")
	noiseCmd.Flags().Int("fps", 30, "Playback rate stored in bundle metadata")
	noiseCmd.Flags().String("prefix", "noise", "Output file name prefix")
	noiseCmd.Flags().Bool("force", false, "Overwrite existing outputs instead of versioning")
	noiseCmd.Flags().Bool("progress", true, "Show progress bar during frame rendering")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"noise.width", "width"},
		{"noise.height", "height"},
		{"noise.type", "type"},
		{"noise.scale", "scale"},
		{"noise.octaves", "octaves"},
		{"noise.persistence", "persistence"},
		{"noise.lacunarity", "lacunarity"},
		{"noise.seed", "seed"},
		{"noise.power", "power"},
		{"noise.warp", "warp"},
		{"noise.z_slice", "z-slice"},
		{"noise.x_offset", "x-offset"},
		{"noise.y_offset", "y-offset"},
		{"noise.z_offset", "z-offset"},
		{"noise.sensitivity", "sensitivity"},
		{"noise.invert", "invert"},
		{"noise.type_b", "type-b"},
		{"noise.scale_b", "scale-b"},
		{"noise.octaves_b", "octaves-b"},
		{"noise.persistence_b", "persistence-b"},
		{"noise.lacunarity_b", "lacunarity-b"},
		{"noise.seed_b", "seed-b"},
		{"noise.power_b", "power-b"},
		{"noise.warp_b", "warp-b"},
		{"noise.z_slice_b", "z-slice-b"},
		{"noise.x_offset_b", "x-offset-b"},
		{"noise.y_offset_b", "y-offset-b"},
		{"noise.z_offset_b", "z-offset-b"},
		{"noise.sensitivity_b", "sensitivity-b"},
		{"noise.invert_b", "invert-b"},
		{"noise.blend_mode", "blend-mode"},
		{"noise.weight", "weight"},
		{"noise.seamless", "seamless"},
		{"noise.blend_band", "blend-band"},
		{"noise.frames", "frames"},
		{"noise.anim_rate", "anim-rate"},
		{"noise.format", "format"},
		{"noise.atlas_mode", "atlas-mode"},
		{"noise.cols", "cols"},
		{"noise.rows", "rows"},
		{"noise.fps", "fps"},
		{"noise.prefix", "prefix"},
		{"noise.force", "force"},
		{"noise.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, noiseCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// layerParams reads one layer's parameter set from viper. The suffix is
// empty for layer A and "_b" for layer B.
func layerParams(suffix string) noise.Params {
	p := noise.DefaultParams()
	p.Scale = viper.GetFloat64("noise.scale" + suffix)
	p.Octaves = viper.GetInt("noise.octaves" + suffix)
	p.Persistence = viper.GetFloat64("noise.persistence" + suffix)
	p.Lacunarity = viper.GetFloat64("noise.lacunarity" + suffix)
	p.Seed = viper.GetInt64("noise.seed" + suffix)
	p.Power = viper.GetFloat64("noise.power" + suffix)
	p.Warp = viper.GetFloat64("noise.warp" + suffix)
	p.ZSlice = viper.GetFloat64("noise.z_slice" + suffix)
	p.XOffset = viper.GetFloat64("noise.x_offset" + suffix)
	p.YOffset = viper.GetFloat64("noise.y_offset" + suffix)
	p.ZOffset = viper.GetFloat64("noise.z_offset" + suffix)
	p.Sensitivity = viper.GetFloat64("noise.sensitivity" + suffix)
	p.Invert = viper.GetBool("noise.invert" + suffix)
	return p
}

func runNoise(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	width := viper.GetInt("noise.width")
	height := viper.GetInt("noise.height")
	frames := viper.GetInt("noise.frames")
	format := viper.GetString("noise.format")
	outputDir := viper.GetString("output-dir")
	prefix := viper.GetString("noise.prefix")
	force := viper.GetBool("noise.force")

	typeA, err := noise.ParseType(viper.GetString("noise.type"))
	if err != nil {
		return err
	}

	typeBName := viper.GetString("noise.type_b")
	typeB := noise.TypeNone
	if typeBName != "" && typeBName != string(noise.TypeNone) {
		typeB, err = noise.ParseType(typeBName)
		if err != nil {
			return err
		}
	}

	blendMode, err := blend.ParseMode(viper.GetString("noise.blend_mode"))
	if err != nil {
		return err
	}

	if format != "atlas" && format != "sequence" && format != "bundle" {
		return fmt.Errorf("invalid format %q: must be 'atlas', 'sequence', or 'bundle'", format)
	}

	cfg := pipeline.Config{
		Width:          width,
		Height:         height,
		LayerA:         pipeline.LayerConfig{Type: typeA, Params: layerParams("")},
		LayerB:         pipeline.LayerConfig{Type: typeB, Params: layerParams("_b")},
		BlendMode:      blendMode,
		BlendWeight:    viper.GetFloat64("noise.weight"),
		Seamless:       viper.GetBool("noise.seamless"),
		BlendBandWidth: viper.GetFloat64("noise.blend_band"),
	}

	logger.Info("Starting noise generation",
		"type", string(typeA),
		"type_b", string(typeB),
		"size", fmt.Sprintf("%dx%d", width, height),
		"frames", frames,
		"seamless", cfg.Seamless,
		"output_dir", outputDir,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	gen := pipeline.NewGenerator(logger)

	if frames <= 1 {
		f, err := gen.Composite(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to generate texture: %w", err)
		}
		path := outputPath(outputDir, prefix+".png", force)
		if err := export.WritePNG(path, f.Gray()); err != nil {
			return err
		}
		logger.Info("Texture written", "path", path)
		return nil
	}

	progress := worker.NewProgress(frames, viper.GetBool("noise.progress"))
	rendered, err := gen.Frames(ctx, cfg, frames, viper.GetFloat64("noise.anim_rate"), progress.Callback())
	progress.Done()
	if err != nil {
		return fmt.Errorf("failed to render frames: %w", err)
	}
	logger.Info(progress.Summary())

	switch format {
	case "sequence":
		imgs := grayImages(rendered)
		paths, err := export.WriteSequence(outputDir, prefix, imgs)
		if err != nil {
			return fmt.Errorf("failed to write sequence: %w", err)
		}
		logger.Info("Sequence written", "dir", outputDir, "frames", len(paths))

	case "atlas":
		layout, err := atlasLayout(frames, width)
		if err != nil {
			return err
		}
		sheet, err := layout.PackGray(rendered)
		if err != nil {
			return fmt.Errorf("failed to pack atlas: %w", err)
		}
		path := outputPath(outputDir, prefix+"_atlas.png", force)
		if err := export.WritePNG(path, sheet); err != nil {
			return err
		}
		logger.Info("Atlas written", "path", path, "grid", fmt.Sprintf("%dx%d", layout.Cols, layout.Rows))

	case "bundle":
		layout, err := atlasLayout(frames, width)
		if err != nil {
			return err
		}
		path := outputPath(outputDir, prefix+".ffbundle", force)
		if err := writeBundle(path, prefix, layout, viper.GetInt("noise.fps"), grayImages(rendered)); err != nil {
			return err
		}
		logger.Info("Bundle written", "path", path, "frames", frames)
	}

	return nil
}

// atlasLayout resolves the grid for the configured atlas mode.
func atlasLayout(frames, frameSize int) (atlas.Layout, error) {
	mode, err := atlas.ParseMode(viper.GetString("noise.atlas_mode"))
	if err != nil {
		return atlas.Layout{}, err
	}
	return atlas.NewLayout(frames, frameSize, mode,
		viper.GetInt("noise.cols"), viper.GetInt("noise.rows"))
}

// outputPath joins dir and name, versioning the result unless force is set.
func outputPath(dir, name string, force bool) string {
	path := filepath.Join(dir, name)
	if force {
		return path
	}
	return export.VersionedPath(path)
}

func grayImages(frames []*image.Gray) []image.Image {
	imgs := make([]image.Image, len(frames))
	for i, f := range frames {
		imgs[i] = f
	}
	return imgs
}

// writeBundle encodes each frame as PNG and stores it in a frame bundle.
// The bundle lands at path only when every frame made it in.
func writeBundle(path, name string, layout atlas.Layout, fps int, frames []image.Image) error {
	encoded := make([][]byte, len(frames))
	for i, frame := range frames {
		data, err := export.EncodePNG(frame)
		if err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		encoded[i] = data
	}

	return export.WriteBundle(path, export.Metadata{
		Name:       name,
		FrameCount: len(frames),
		FrameSize:  layout.FrameSize,
		Cols:       layout.Cols,
		Rows:       layout.Rows,
		FPS:        fps,
		Generator:  "fieldforge",
	}, encoded)
}
