//go:build !headless

package console

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/haivivi/cwlink/pkg/bridge"
	"github.com/haivivi/cwlink/pkg/keyer"
)

const (
	windowW    = 600
	windowH    = 400
	screenW    = windowW / 2
	screenH    = windowH / 2
	lineHeight = 20
)

var windowKeys = []ebiten.Key{
	ebiten.KeySpace,
	ebiten.KeyT,
	ebiten.KeyV,
	ebiten.KeyB,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
	ebiten.KeyEscape,
}

// windowKey maps a window key to a keyer key.
func windowKey(k ebiten.Key) keyer.Key {
	switch k {
	case ebiten.KeySpace:
		return keyer.KeyStraight
	case ebiten.KeyT:
		return keyer.KeyTalk
	case ebiten.KeyV:
		return keyer.KeyDit
	case ebiten.KeyB:
		return keyer.KeyDah
	case ebiten.KeyArrowUp:
		return keyer.KeySpeedUp
	case ebiten.KeyArrowDown:
		return keyer.KeySpeedDown
	case ebiten.KeyArrowLeft:
		return keyer.KeyFreqDown
	case ebiten.KeyArrowRight:
		return keyer.KeyFreqUp
	case ebiten.KeyEscape:
		return keyer.KeyQuit
	default:
		return keyer.KeyNone
	}
}

// window is the ebiten game of the window console.
type window struct {
	ctx      context.Context
	target   Target
	snap     bridge.Snapshot
	quitSent bool
}

func (w *window) quit() {
	if !w.quitSent {
		w.quitSent = true
		w.target.Post(keyer.Press(keyer.KeyQuit))
	}
}

func (w *window) Update() error {
	if ebiten.IsWindowBeingClosed() {
		w.quit()
	}

	for _, key := range windowKeys {
		k := windowKey(key)
		switch {
		case inpututil.IsKeyJustPressed(key):
			if k == keyer.KeyQuit {
				w.quit()
				continue
			}
			w.target.Post(keyer.Press(k))
		case inpututil.IsKeyJustReleased(key):
			if k != keyer.KeyQuit {
				w.target.Post(keyer.Release(k))
			}
		}
	}

	w.snap = w.target.Snapshot()
	if w.terminated() {
		return ebiten.Termination
	}
	return nil
}

// terminated reports whether the window should close: the process is
// shutting down, or the operator quit and the session has ended.
func (w *window) terminated() bool {
	if w.ctx.Err() != nil {
		return true
	}
	if !w.quitSent {
		return false
	}
	select {
	case <-w.target.Done():
		return true
	default:
		return false
	}
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	for i, line := range StatusLines(w.snap) {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*lineHeight)
	}
}

func (w *window) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

// RunWindow runs the window console until the operator quits and the target
// is done, or ctx is canceled. After a peer disconnect the window stays up.
// It must be called from the main goroutine.
func RunWindow(ctx context.Context, t Target) error {
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("cwlink")
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(&window{ctx: ctx, target: t, snap: t.Snapshot()})
}
