package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/fieldforge/internal/anim"
	"github.com/MeKo-Tech/fieldforge/internal/atlas"
	"github.com/MeKo-Tech/fieldforge/internal/export"
	"github.com/MeKo-Tech/fieldforge/internal/pipeline"
	"github.com/MeKo-Tech/fieldforge/internal/sprite"
	"github.com/MeKo-Tech/fieldforge/internal/worker"
)

var spriteCmd = &cobra.Command{
	Use:   "sprite",
	Short: "Generate shape sprites",
	Long: `Generate parametric RGBA sprites as single images or animated frame sets.

Animation channels are configured in the config file under sprite.anim,
one entry per parameter key with enabled, start, end, style, and curve
fields. A color ramp goes under sprite.color_anim.`,
	RunE: runSprite,
}

// spriteParamFlags maps CLI flags to sprite parameter keys. Only flags the
// user actually sets override the shape's defaults.
var spriteParamFlags = []struct {
	flag string
	key  string
}{
	{"radius", "radius"},
	{"shape-size", "size"},
	{"thickness", "thickness"},
	{"softness", "softness"},
	{"rotation", "rotation"},
	{"angle", "angle"},
	{"length", "length"},
	{"sides", "sides"},
	{"points", "points"},
	{"outer-radius", "outer_radius"},
	{"inner-radius", "inner_radius"},
	{"intensity", "intensity"},
	{"falloff", "falloff"},
	{"blur", "blur"},
	{"flame-height", "height"},
	{"flame-width", "width"},
	{"turbulence", "turbulence"},
	{"noise-scale", "scale"},
	{"contrast", "contrast"},
	{"threshold", "threshold"},
	{"rays", "rays"},
	{"alpha", "alpha"},
}

func init() {
	rootCmd.AddCommand(spriteCmd)

	spriteCmd.Flags().String("type", "Circle", "Sprite shape (Circle, Square, Line, N-Gon, Star, Glow, Flame, Sparkle, Noise, Gradient, Ring, Cross)")
	spriteCmd.Flags().Int("size", 256, "Sprite size in pixels (square)")

	// Shape parameters; defaults come from the shape, so these only apply
	// when explicitly set.
	spriteCmd.Flags().Float64("radius", 0, "Shape radius as a fraction of the half extent")
	spriteCmd.Flags().Float64("shape-size", 0, "Square extent as a fraction of the half extent")
	spriteCmd.Flags().Float64("thickness", 0, "Bar or ray thickness")
	spriteCmd.Flags().Float64("softness", 0, "Edge falloff width")
	spriteCmd.Flags().Float64("rotation", 0, "Rotation in degrees")
	spriteCmd.Flags().Float64("angle", 0, "Line or gradient angle in degrees")
	spriteCmd.Flags().Float64("length", 0, "Line or ray length")
	spriteCmd.Flags().Int("sides", 0, "Polygon side count")
	spriteCmd.Flags().Int("points", 0, "Star point count")
	spriteCmd.Flags().Float64("outer-radius", 0, "Outer radius for stars and rings")
	spriteCmd.Flags().Float64("inner-radius", 0, "Inner radius for stars and rings")
	spriteCmd.Flags().Float64("intensity", 0, "Glow intensity")
	spriteCmd.Flags().Float64("falloff", 0, "Falloff exponent")
	spriteCmd.Flags().Float64("blur", 0, "Gaussian blur amount")
	spriteCmd.Flags().Float64("flame-height", 0, "Flame height fraction")
	spriteCmd.Flags().Float64("flame-width", 0, "Flame width fraction")
	spriteCmd.Flags().Float64("turbulence", 0, "Flame turbulence amount")
	spriteCmd.Flags().Float64("noise-scale", 0, "Noise grid scale")
	spriteCmd.Flags().Float64("contrast", 0, "Noise contrast")
	spriteCmd.Flags().Float64("threshold", 0, "Noise cutoff threshold")
	spriteCmd.Flags().Int("rays", 0, "Sparkle ray count")
	spriteCmd.Flags().Float64("alpha", 0, "Alpha multiplier")
	spriteCmd.Flags().Int("octaves", 0, "Noise octave count")
	spriteCmd.Flags().Int64("seed", 0, "Deterministic seed")
	spriteCmd.Flags().Bool("gradient", false, "Apply radial shading inside the shape")
	spriteCmd.Flags().String("gradient-type", "", "Gradient layout: radial or linear")

	// Color flags
	spriteCmd.Flags().Int("color-r", -1, "Red tint 0-255 (default from shape)")
	spriteCmd.Flags().Int("color-g", -1, "Green tint 0-255 (default from shape)")
	spriteCmd.Flags().Int("color-b", -1, "Blue tint 0-255 (default from shape)")

	// Animation flags
	spriteCmd.Flags().Int("frames", 1, "Number of frames to render (1 for a still image)")

	// Output flags
	spriteCmd.Flags().String("format", "atlas", "Multi-frame output format: atlas, sequence, or bundle")
	spriteCmd.Flags().String("atlas-mode", "AutoSquare", "Atlas grid mode (AutoSquare, RowOnly, ColumnOnly, Manual)")
	spriteCmd.Flags().Int("cols", 0, "Atlas columns (Manual mode)")
	spriteCmd.Flags().Int("rows", 0, "Atlas rows (Manual mode)")
	spriteCmd.Flags().Int("fps", 30, "Playback rate stored in bundle metadata")
	spriteCmd.Flags().String("prefix", "sprite", "Output file name prefix")
	spriteCmd.Flags().Bool("force", false, "Overwrite existing outputs instead of versioning")
	spriteCmd.Flags().Bool("progress", true, "Show progress bar during frame rendering")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"sprite.type", "type"},
		{"sprite.size", "size"},
		{"sprite.frames", "frames"},
		{"sprite.format", "format"},
		{"sprite.atlas_mode", "atlas-mode"},
		{"sprite.cols", "cols"},
		{"sprite.rows", "rows"},
		{"sprite.fps", "fps"},
		{"sprite.prefix", "prefix"},
		{"sprite.force", "force"},
		{"sprite.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, spriteCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// spriteParams builds the parameter set for a shape, starting from its
// defaults and applying only the flags the user changed.
func spriteParams(cmd *cobra.Command, typ sprite.Type) (sprite.Params, error) {
	p := sprite.Defaults(typ)

	for _, pf := range spriteParamFlags {
		if !cmd.Flags().Changed(pf.flag) {
			continue
		}
		var v float64
		switch pf.flag {
		case "sides", "points", "rays":
			iv, err := cmd.Flags().GetInt(pf.flag)
			if err != nil {
				return p, err
			}
			v = float64(iv)
		default:
			fv, err := cmd.Flags().GetFloat64(pf.flag)
			if err != nil {
				return p, err
			}
			v = fv
		}
		if err := p.Set(pf.key, v); err != nil {
			return p, err
		}
	}

	if cmd.Flags().Changed("octaves") {
		oct, err := cmd.Flags().GetInt("octaves")
		if err != nil {
			return p, err
		}
		p.Octaves = oct
	}
	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return p, err
		}
		p.Seed = seed
	}
	if cmd.Flags().Changed("gradient") {
		grad, err := cmd.Flags().GetBool("gradient")
		if err != nil {
			return p, err
		}
		p.Gradient = grad
	}
	if cmd.Flags().Changed("gradient-type") {
		gt, err := cmd.Flags().GetString("gradient-type")
		if err != nil {
			return p, err
		}
		if gt != sprite.GradientRadial && gt != sprite.GradientLinear {
			return p, fmt.Errorf("invalid gradient type %q: must be 'radial' or 'linear'", gt)
		}
		p.GradientType = gt
	}

	colorFlags := []struct {
		flag string
		dst  *uint8
	}{
		{"color-r", &p.ColorR},
		{"color-g", &p.ColorG},
		{"color-b", &p.ColorB},
	}
	for _, cf := range colorFlags {
		if !cmd.Flags().Changed(cf.flag) {
			continue
		}
		c, err := cmd.Flags().GetInt(cf.flag)
		if err != nil {
			return p, err
		}
		if c < 0 || c > 255 {
			return p, fmt.Errorf("invalid color component %d for --%s", c, cf.flag)
		}
		*cf.dst = uint8(c)
	}

	return p, nil
}

// animSpecs reads animation channels from the config file tree under
// sprite.anim.
func animSpecs() (map[string]anim.Spec, error) {
	raw := viper.GetStringMap("sprite.anim")
	if len(raw) == 0 {
		return nil, nil
	}

	specs := make(map[string]anim.Spec, len(raw))
	for key := range raw {
		base := "sprite.anim." + key
		spec := anim.Spec{
			Enabled: viper.GetBool(base + ".enabled"),
			Start:   viper.GetFloat64(base + ".start"),
			End:     viper.GetFloat64(base + ".end"),
			Style:   anim.StyleLinear,
			Curve:   anim.CurveLinear,
		}
		if s := viper.GetString(base + ".style"); s != "" {
			style, err := anim.ParseStyle(s)
			if err != nil {
				return nil, fmt.Errorf("channel %q: %w", key, err)
			}
			spec.Style = style
		}
		if c := viper.GetString(base + ".curve"); c != "" {
			curve, err := anim.ParseCurve(c)
			if err != nil {
				return nil, fmt.Errorf("channel %q: %w", key, err)
			}
			spec.Curve = curve
		}
		specs[key] = spec
	}
	return specs, nil
}

// colorAnim reads the color ramp from the config file if enabled.
func colorAnim() (*pipeline.ColorAnim, error) {
	if !viper.GetBool("sprite.color_anim.enabled") {
		return nil, nil
	}

	start := viper.GetIntSlice("sprite.color_anim.start")
	end := viper.GetIntSlice("sprite.color_anim.end")
	if len(start) != 3 || len(end) != 3 {
		return nil, fmt.Errorf("color_anim start and end must each hold 3 components")
	}

	ca := &pipeline.ColorAnim{}
	for i := 0; i < 3; i++ {
		if start[i] < 0 || start[i] > 255 || end[i] < 0 || end[i] > 255 {
			return nil, fmt.Errorf("color_anim components must be in 0-255")
		}
		ca.Start[i] = uint8(start[i])
		ca.End[i] = uint8(end[i])
	}
	return ca, nil
}

func runSprite(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	typ, err := sprite.ParseType(viper.GetString("sprite.type"))
	if err != nil {
		return err
	}

	size := viper.GetInt("sprite.size")
	frames := viper.GetInt("sprite.frames")
	format := viper.GetString("sprite.format")
	outputDir := viper.GetString("output-dir")
	prefix := viper.GetString("sprite.prefix")
	force := viper.GetBool("sprite.force")

	if format != "atlas" && format != "sequence" && format != "bundle" {
		return fmt.Errorf("invalid format %q: must be 'atlas', 'sequence', or 'bundle'", format)
	}

	params, err := spriteParams(cmd, typ)
	if err != nil {
		return err
	}

	specs, err := animSpecs()
	if err != nil {
		return err
	}

	ca, err := colorAnim()
	if err != nil {
		return err
	}

	cfg := pipeline.SpriteConfig{
		Type:      typ,
		Size:      size,
		Params:    params,
		Anims:     specs,
		ColorAnim: ca,
	}

	logger.Info("Starting sprite generation",
		"type", string(typ),
		"size", size,
		"frames", frames,
		"channels", len(specs),
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
		img, err := gen.SpriteFrames(ctx, cfg, 1, nil)
		if err != nil {
			return fmt.Errorf("failed to generate sprite: %w", err)
		}
		path := outputPath(outputDir, prefix+".png", force)
		if err := export.WritePNG(path, img[0]); err != nil {
			return err
		}
		logger.Info("Sprite written", "path", path)
		return nil
	}

	progress := worker.NewProgress(frames, viper.GetBool("sprite.progress"))
	rendered, err := gen.SpriteFrames(ctx, cfg, frames, progress.Callback())
	progress.Done()
	if err != nil {
		return fmt.Errorf("failed to render frames: %w", err)
	}
	logger.Info(progress.Summary())

	mode, err := atlas.ParseMode(viper.GetString("sprite.atlas_mode"))
	if err != nil {
		return err
	}

	switch format {
	case "sequence":
		paths, err := export.WriteSequence(outputDir, prefix, rendered)
		if err != nil {
			return fmt.Errorf("failed to write sequence: %w", err)
		}
		logger.Info("Sequence written", "dir", outputDir, "frames", len(paths))

	case "atlas":
		layout, err := atlas.NewLayout(frames, size, mode,
			viper.GetInt("sprite.cols"), viper.GetInt("sprite.rows"))
		if err != nil {
			return err
		}
		sheet, err := layout.Pack(rendered)
		if err != nil {
			return fmt.Errorf("failed to pack atlas: %w", err)
		}
		path := outputPath(outputDir, prefix+"_atlas.png", force)
		if err := export.WritePNG(path, sheet); err != nil {
			return err
		}
		logger.Info("Atlas written", "path", path, "grid", fmt.Sprintf("%dx%d", layout.Cols, layout.Rows))

	case "bundle":
		layout, err := atlas.NewLayout(frames, size, mode,
			viper.GetInt("sprite.cols"), viper.GetInt("sprite.rows"))
		if err != nil {
			return err
		}
		path := outputPath(outputDir, prefix+".ffbundle", force)
		if err := writeBundle(path, prefix, layout, viper.GetInt("sprite.fps"), rendered); err != nil {
			return err
		}
		logger.Info("Bundle written", "path", path, "frames", frames)
	}

	return nil
}
