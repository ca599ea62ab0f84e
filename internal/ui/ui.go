package ui

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
	atomic_clock "github.com/temoto/atomic_clock"
	"github.com/thenoizz/dotmenu/hardware/backlight"
	"github.com/thenoizz/dotmenu/hardware/text_display"
	"github.com/thenoizz/dotmenu/helpers"
	"github.com/thenoizz/dotmenu/internal/state"
	"github.com/thenoizz/dotmenu/internal/types"
	ui_config "github.com/thenoizz/dotmenu/internal/ui/config"
)

const DefaultPoll = 10 * time.Millisecond

const idlePoll = time.Second

type UI struct { //nolint:maligned
	Menu *Menu

	config       *ui_config.Config
	g            *state.Global
	state        State
	display      *text_display.TextDisplay
	backlight    *backlight.Backlight
	lastActivity *atomic_clock.Clock
	inputch      chan types.InputEvent
	frameCache   string
	poll         time.Duration
	idle         time.Duration

	XXX_testHook func(State)
}

func (self *UI) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)
	self.config = &self.g.Config.UI
	self.setState(StateBoot)

	self.Menu = NewMenu()
	if self.config.Menu.Entry == "" {
		self.config.Menu.Entry = "dotmenu"
	}

	self.display = self.g.MustTextDisplay()
	bl, err := self.g.Backlight()
	if err != nil {
		return errors.Annotate(err, "ui.Init backlight")
	}
	self.backlight = bl

	self.inputch = self.g.Hardware.Input.SubscribeChan("ui", self.g.Alive.StopChan())
	self.lastActivity = atomic_clock.Now()
	self.poll = helpers.IntMillisecondDefault(self.config.Menu.PollMs, DefaultPoll)
	self.idle = helpers.IntSecondDefault(self.config.IdleSec, 0)
	return nil
}

func (self *UI) wait(timeout time.Duration) types.Event {
	tmr := time.NewTimer(timeout)
	defer tmr.Stop()
	select {
	case e := <-self.inputch:
		if !e.IsZero() {
			self.lastActivity.SetNow()
		}
		return types.Event{Kind: types.EventInput, Input: e}

	case <-tmr.C:
		return types.Event{Kind: types.EventTime}

	case <-self.g.Alive.StopChan():
		return types.Event{Kind: types.EventStop}
	}
}

// frame buffers one menu render so the display flushes all rows at once.
type frame struct {
	rows []string
}

func newFrame(rows uint32) *frame { return &frame{rows: make([]string, rows)} }

func (f *frame) Rows() uint32 { return uint32(len(f.rows)) }

func (f *frame) WriteOption(row uint8, margin uint8, icon string, text string) {
	if int(row) >= len(f.rows) {
		return
	}
	prefix := icon
	if n := int(margin) - len(icon); n > 0 {
		prefix += strings.Repeat(" ", n)
	}
	f.rows[row] = prefix + text
}

var _ RowWriter = &frame{}
var _ RowWriter = &text_display.TextDisplay{}

// redrawMenu flushes only when the frame changed, so the poll tick can
// redraw every interval without clobbering a task's Message or flooding
// the update channel.
func (self *UI) redrawMenu() {
	f := newFrame(self.display.Rows())
	self.Menu.Redraw(f)
	key := strings.Join(f.rows, "\n")
	if key == self.frameCache {
		return
	}
	self.frameCache = key
	self.display.SetRows(f.rows...)
}

func (self *UI) setBacklightConfig() error {
	r := byte(self.config.Backlight.Red)
	g := byte(self.config.Backlight.Green)
	b := byte(self.config.Backlight.Blue)
	if r == 0 && g == 0 && b == 0 {
		r, g, b = 255, 255, 255
	}
	return self.backlight.SetRGB(r, g, b)
}
