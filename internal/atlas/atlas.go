// Package atlas packs frame sequences into sprite-sheet grids and names
// frames for sequence export.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	xdraw "golang.org/x/image/draw"
)

// Mode selects the grid shape for a packed atlas.
type Mode string

const (
	ModeAutoSquare Mode = "AutoSquare"
	ModeRowOnly    Mode = "RowOnly"
	ModeColumnOnly Mode = "ColumnOnly"
	ModeManual     Mode = "Manual"
)

// ErrGridTooSmall reports a manual grid that cannot hold every frame.
var ErrGridTooSmall = errors.New("atlas grid too small for frame count")

// ParseMode validates an atlas mode tag. Short aliases are accepted for
// convenience on the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAutoSquare, ModeRowOnly, ModeColumnOnly, ModeManual:
		return Mode(s), nil
	}
	switch s {
	case "Auto":
		return ModeAutoSquare, nil
	case "Row":
		return ModeRowOnly, nil
	case "Column":
		return ModeColumnOnly, nil
	}
	return "", fmt.Errorf("unknown atlas mode %q", s)
}

// Layout describes a resolved atlas grid.
type Layout struct {
	Cols       int
	Rows       int
	FrameSize  int
	FrameCount int
	Mode       Mode
}

// NewLayout resolves the grid for a frame count. Manual mode takes the
// caller's dimensions and fails fast when they cannot hold every frame.
func NewLayout(frameCount, frameSize int, mode Mode, manualCols, manualRows int) (Layout, error) {
	if frameCount <= 0 {
		return Layout{}, fmt.Errorf("invalid frame count %d", frameCount)
	}
	if frameSize <= 0 {
		return Layout{}, fmt.Errorf("invalid frame size %d", frameSize)
	}

	l := Layout{FrameSize: frameSize, FrameCount: frameCount, Mode: mode}
	switch mode {
	case ModeAutoSquare:
		l.Cols = int(math.Ceil(math.Sqrt(float64(frameCount))))
		l.Rows = int(math.Ceil(float64(frameCount) / float64(l.Cols)))
	case ModeRowOnly:
		l.Cols = frameCount
		l.Rows = 1
	case ModeColumnOnly:
		l.Cols = 1
		l.Rows = frameCount
	case ModeManual:
		if manualCols <= 0 || manualRows <= 0 {
			return Layout{}, fmt.Errorf("invalid manual grid %dx%d", manualCols, manualRows)
		}
		if manualCols*manualRows < frameCount {
			return Layout{}, fmt.Errorf("%w: %dx%d holds %d, need %d",
				ErrGridTooSmall, manualCols, manualRows, manualCols*manualRows, frameCount)
		}
		l.Cols = manualCols
		l.Rows = manualRows
	default:
		return Layout{}, fmt.Errorf("unknown atlas mode %q", mode)
	}
	return l, nil
}

// Bounds returns the pixel dimensions of the packed sheet.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Cols*l.FrameSize, l.Rows*l.FrameSize)
}

// cell returns the destination rectangle for frame i.
func (l Layout) cell(i int) image.Rectangle {
	x := (i % l.Cols) * l.FrameSize
	y := (i / l.Cols) * l.FrameSize
	return image.Rect(x, y, x+l.FrameSize, y+l.FrameSize)
}

// Pack places frames left to right, top to bottom. Frames whose size does
// not match the cell are rescaled.
func (l Layout) Pack(frames []image.Image) (*image.NRGBA, error) {
	if len(frames) != l.FrameCount {
		return nil, fmt.Errorf("layout expects %d frames, got %d", l.FrameCount, len(frames))
	}
	sheet := image.NewNRGBA(l.Bounds())
	for i, frame := range frames {
		dst := l.cell(i)
		if frame.Bounds().Dx() == l.FrameSize && frame.Bounds().Dy() == l.FrameSize {
			xdraw.Draw(sheet, dst, frame, frame.Bounds().Min, xdraw.Src)
		} else {
			xdraw.BiLinear.Scale(sheet, dst, frame, frame.Bounds(), xdraw.Src, nil)
		}
	}
	return sheet, nil
}

// PackGray is Pack for single-channel frames, keeping the sheet grayscale.
func (l Layout) PackGray(frames []*image.Gray) (*image.Gray, error) {
	if len(frames) != l.FrameCount {
		return nil, fmt.Errorf("layout expects %d frames, got %d", l.FrameCount, len(frames))
	}
	sheet := image.NewGray(l.Bounds())
	for i, frame := range frames {
		dst := l.cell(i)
		if frame.Bounds().Dx() == l.FrameSize && frame.Bounds().Dy() == l.FrameSize {
			xdraw.Draw(sheet, dst, frame, frame.Bounds().Min, xdraw.Src)
		} else {
			xdraw.BiLinear.Scale(sheet, dst, frame, frame.Bounds(), xdraw.Src, nil)
		}
	}
	return sheet, nil
}

// FrameName builds the file name for one frame of a sequence. Padding is
// sized to the largest index so names sort lexicographically.
func FrameName(prefix string, index, frameCount int) string {
	pad := len(strconv.Itoa(frameCount - 1))
	return fmt.Sprintf("%s_%0*d.png", prefix, pad, index)
}
