package ui

import (
	"context"
	"sync/atomic"

	atomic_clock "github.com/temoto/atomic_clock"
	"github.com/thenoizz/dotmenu/internal/types"
)

type State uint32

const (
	StateDefault State = iota

	StateBoot // t=backlight+entry ->Menu
	StateMenu // t=input/timeout +inputUpDown=cursor +inputRight=task +idle=Idle
	StateIdle // t=input/timeout +input=Menu

	StateStop
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateBoot:
		return "Boot"
	case StateMenu:
		return "Menu"
	case StateIdle:
		return "Idle"
	case StateStop:
		return "Stop"
	}
	return "unknown"
}

func (self *UI) State() State               { return State(atomic.LoadUint32((*uint32)(&self.state))) }
func (self *UI) setState(new State)         { atomic.StoreUint32((*uint32)(&self.state), uint32(new)) }
func (self *UI) XXX_testSetState(new State) { self.setState(new) }

func (self *UI) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()
	next := StateDefault
	for next != StateStop && self.g.Alive.IsRunning() {
		current := self.State()
		next = self.enter(ctx, current)
		if next == StateDefault {
			self.g.Log.Fatalf("ui state=%s next=default", current.String())
		}
		self.exit(current, next)

		if !self.g.Alive.IsRunning() {
			self.g.Log.Debugf("ui loop stopping because g.Alive")
			next = StateStop
		}

		self.setState(next)
		if self.XXX_testHook != nil {
			self.XXX_testHook(next)
		}
	}
	self.g.Log.Debugf("ui loop end")
}

func (self *UI) enter(ctx context.Context, s State) State {
	self.g.Log.Debugf("ui enter %s", s.String())
	switch s {
	case StateBoot:
		if self.backlight != nil {
			self.g.Error(self.setBacklightConfig(), "boot backlight")
		}
		self.display.SetRows(self.config.Menu.Entry)
		// entry names the initial option; when no option carries that
		// name the first registered one stays active
		if err := self.Menu.SetActive(self.config.Menu.Entry); err != nil {
			self.g.Log.Debugf("ui boot menu entry=%s %v", self.config.Menu.Entry, err)
		}
		return StateMenu

	case StateMenu:
		return self.onMenu(ctx)

	case StateIdle:
		return self.onIdle()

	case StateStop:
		return StateStop

	default:
		self.g.Log.Fatalf("unhandled ui state=%s", s.String())
		return StateDefault
	}
}

func (self *UI) exit(current, next State) {
	self.g.Log.Debugf("ui exit %s -> %s", current.String(), next.String())
}

func (self *UI) onMenu(ctx context.Context) State {
	self.frameCache = "" // force flush on entry
	self.redrawMenu()
	for self.g.Alive.IsRunning() {
		e := self.wait(self.poll)
		switch e.Kind {
		case types.EventInput:
			self.onMenuInput(ctx, e.Input)

		case types.EventTime:
			self.redrawMenu()
			if self.idle != 0 && atomic_clock.Since(self.lastActivity) >= self.idle {
				return StateIdle
			}

		case types.EventStop:
			return StateStop
		}
	}
	return StateStop
}

func (self *UI) onMenuInput(ctx context.Context, e types.InputEvent) {
	if !e.Press() {
		return
	}
	switch e.Key {
	case types.KeyUp:
		self.Menu.Up()
		self.redrawMenu()

	case types.KeyDown:
		self.Menu.Down()
		self.redrawMenu()

	case types.KeyRight, types.KeySelect:
		self.menuSelect(ctx)

	case types.KeyLeft:
		// single level menu, nothing to go back to
		self.g.Log.Debugf("ui menu left ignored")
	}
}

// menuSelect binds the action under the cursor at press time and runs it
// in a task, so the event loop keeps servicing input and redraw within
// the poll interval and later cursor motion cannot redirect the dispatch.
func (self *UI) menuSelect(ctx context.Context) {
	name, fn := self.Menu.Bind()
	if fn == nil {
		self.g.Log.Debugf("ui menu select empty menu")
		return
	}
	if t := self.g.Tasks.Start(ctx, "menu/"+name, fn); t == nil {
		self.g.Log.Debugf("ui menu select dropped, stopping")
	}
}

func (self *UI) onIdle() State {
	if self.backlight != nil {
		self.g.Error(self.backlight.Dim(1, 4), "idle backlight")
	}
	for self.g.Alive.IsRunning() {
		e := self.wait(idlePoll)
		switch e.Kind {
		case types.EventInput:
			// the waking press is consumed, not routed to the menu
			if self.backlight != nil {
				self.g.Error(self.setBacklightConfig(), "wake backlight")
			}
			return StateMenu

		case types.EventStop:
			return StateStop
		}
	}
	return StateStop
}
