// Package pipeline wires noise composition, blending, animation, and
// sprite rendering into frame producers the commands drive.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/MeKo-Tech/fieldforge/internal/anim"
	"github.com/MeKo-Tech/fieldforge/internal/blend"
	"github.com/MeKo-Tech/fieldforge/internal/field"
	"github.com/MeKo-Tech/fieldforge/internal/noise"
	"github.com/MeKo-Tech/fieldforge/internal/sprite"
	"github.com/MeKo-Tech/fieldforge/internal/worker"
)

// LayerConfig describes one noise layer.
type LayerConfig struct {
	Type   noise.Type
	Params noise.Params
}

// Config describes a two-layer noise composition.
type Config struct {
	Width          int
	Height         int
	LayerA         LayerConfig
	LayerB         LayerConfig
	BlendMode      blend.Mode
	BlendWeight    float64
	Seamless       bool
	BlendBandWidth float64
}

// Generator produces composed scalar fields and frame sequences.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a generator. A nil logger falls back to the
// process default.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// Composite generates the configured layers and blends them into one
// field. Layer B is skipped when its type is empty or None.
func (g *Generator) Composite(ctx context.Context, cfg Config) (*field.Scalar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.log().Debug("Generating layer A", "type", string(cfg.LayerA.Type))
	a, err := noise.Generate(cfg.LayerA.Type, cfg.Width, cfg.Height, cfg.LayerA.Params,
		cfg.Seamless, cfg.BlendBandWidth)
	if err != nil {
		return nil, fmt.Errorf("layer A: %w", err)
	}

	if cfg.LayerB.Type == "" || cfg.LayerB.Type == noise.TypeNone {
		return a, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.log().Debug("Generating layer B", "type", string(cfg.LayerB.Type), "mode", string(cfg.BlendMode))
	b, err := noise.Generate(cfg.LayerB.Type, cfg.Width, cfg.Height, cfg.LayerB.Params,
		cfg.Seamless, cfg.BlendBandWidth)
	if err != nil {
		return nil, fmt.Errorf("layer B: %w", err)
	}

	out, err := blend.Blend(a, b, cfg.BlendWeight, cfg.BlendMode)
	if err != nil {
		return nil, fmt.Errorf("blend: %w", err)
	}
	return out, nil
}

// Frames renders an animation by advancing both layers' Z offset by rate
// per frame. The context is checked between frames so a cancelled render
// stops promptly.
func (g *Generator) Frames(ctx context.Context, cfg Config, frameCount int, rate float64, onProgress worker.ProgressFunc) ([]*image.Gray, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", frameCount)
	}

	baseA := cfg.LayerA.Params.ZOffset
	baseB := cfg.LayerB.Params.ZOffset

	frames := make([]*image.Gray, 0, frameCount)
	for i := 0; i < frameCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frameCfg := cfg
		frameCfg.LayerA.Params.ZOffset = anim.RateOffset(baseA, rate, i)
		frameCfg.LayerB.Params.ZOffset = anim.RateOffset(baseB, rate, i)

		f, err := g.Composite(ctx, frameCfg)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, f.Gray())

		if onProgress != nil {
			onProgress(i+1, frameCount, 0)
		}
	}
	return frames, nil
}

// ColorAnim animates the sprite tint across the sequence.
type ColorAnim struct {
	Start [3]uint8
	End   [3]uint8
}

// SpriteConfig describes an animated sprite render.
type SpriteConfig struct {
	Type      sprite.Type
	Size      int
	Params    sprite.Params
	Anims     map[string]anim.Spec
	ColorAnim *ColorAnim
}

// SpriteFrames renders an animated sprite sequence. Each enabled channel
// is evaluated per frame and written into a copy of the base parameters.
func (g *Generator) SpriteFrames(ctx context.Context, cfg SpriteConfig, frameCount int, onProgress worker.ProgressFunc) ([]image.Image, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", frameCount)
	}

	// Stable channel order keeps error reporting deterministic.
	keys := make([]string, 0, len(cfg.Anims))
	for k := range cfg.Anims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	frames := make([]image.Image, 0, frameCount)
	for i := 0; i < frameCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := cfg.Params
		for _, key := range keys {
			spec := cfg.Anims[key]
			if !spec.Enabled {
				continue
			}
			current, err := p.Value(key)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			if err := p.Set(key, anim.ValueAt(spec, current, i, frameCount)); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
		}

		if cfg.ColorAnim != nil {
			rgb := anim.ColorAt(cfg.ColorAnim.Start, cfg.ColorAnim.End, i, frameCount)
			p.ColorR, p.ColorG, p.ColorB = rgb[0], rgb[1], rgb[2]
		}

		img, err := sprite.Generate(cfg.Type, cfg.Size, cfg.Size, p)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, img.Image())

		if onProgress != nil {
			onProgress(i+1, frameCount, 0)
		}
	}
	return frames, nil
}
