package metrics

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"

	"birdseye/env"
)

const (
	frameSize     = 200
	metersPerPx   = 2 * env.LossRange / frameSize
	frameDelay    = 10 // Hundredths of a second
	markerRadius  = 2
	particleColor = 1
	sensorColor   = 2
	targetColor   = 3
)

var palette = color.Palette{
	color.White,
	color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
	color.RGBA{B: 0xff, A: 0xff},
	color.RGBA{R: 0xff, A: 0xff},
}

// SaveVisual renders the figure's frames of a trial as an animated GIF under visuals/.
func (w *Writer) SaveVisual(trial int, fig *Figure) error {
	dir := filepath.Join(w.baseDir, "visuals")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create visuals directory: %w", err)
	}

	animation := &gif.GIF{}
	frames := fig.Frames()
	if len(frames) == 0 {
		frames = []Frame{{}}
	}
	for _, frame := range frames {
		animation.Image = append(animation.Image, render(frame))
		animation.Delay = append(animation.Delay, frameDelay)
	}

	path := filepath.Join(dir, fmt.Sprintf("trial_%d.gif", trial))
	return writeFile(path, func(f *os.File) error {
		if err := gif.EncodeAll(f, animation); err != nil {
			return fmt.Errorf("failed to encode visual for trial %d: %w", trial, err)
		}
		return nil
	})
}

// render draws one frame centered on the sensor.
func render(frame Frame) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, frameSize, frameSize), palette)
	origin := frame.State.Sensor
	plot := func(x, y float64, c uint8, radius int) {
		px := frameSize/2 + int((x-origin.X)/metersPerPx)
		py := frameSize/2 - int((y-origin.Y)/metersPerPx)
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if image.Pt(px+dx, py+dy).In(img.Rect) {
					img.SetColorIndex(px+dx, py+dy, c)
				}
			}
		}
	}

	for _, particle := range frame.Particles {
		plot(particle.Target.X, particle.Target.Y, particleColor, 0)
	}
	plot(frame.State.Target.X, frame.State.Target.Y, targetColor, markerRadius)
	plot(origin.X, origin.Y, sensorColor, markerRadius)
	return img
}
