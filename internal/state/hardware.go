package state

import (
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/hardware/backlight"
	"github.com/thenoizz/dotmenu/hardware/i2c"
	"github.com/thenoizz/dotmenu/hardware/input"
	"github.com/thenoizz/dotmenu/hardware/lcd"
	"github.com/thenoizz/dotmenu/hardware/text_display"
	"github.com/thenoizz/dotmenu/helpers"
)

type hardware struct {
	LCD struct {
		once
		Device  *lcd.LCD
		Display *text_display.TextDisplay
	}
	Backlight struct {
		once
		Ctl *backlight.Backlight
	}
	Input     *input.Dispatch
	initInput sync.Once
}

type once struct {
	sync.Once
	err error
}

func (o *once) do(f func() error) error {
	o.Do(func() {
		o.err = f()
	})
	return o.err
}

func (g *Global) MustTextDisplay() *text_display.TextDisplay {
	d, err := g.TextDisplay()
	if err != nil {
		g.Log.Fatal(err)
	}
	if d == nil {
		g.Log.Fatal("text display is not available")
	}
	return d
}

func (g *Global) TextDisplay() (*text_display.TextDisplay, error) {
	x := &g.Hardware.LCD
	err := x.do(func() error {
		if x.Display != nil { // testing mode preset
			return nil
		}

		devConfig := &g.Config.Hardware.LCD
		if !devConfig.Enable {
			g.Log.Infof("text display lcd is disabled")
			return nil
		}

		devWrap := new(lcd.LCD)
		if err := devWrap.Init(devConfig.PinChip, devConfig.Pinmap); err != nil {
			return errors.Annotatef(err, "lcd.Init config=%#v", devConfig)
		}
		ctrl := lcd.ControlOn
		if devConfig.ControlBlink {
			ctrl |= lcd.ControlBlink
		}
		if devConfig.ControlCursor {
			ctrl |= lcd.ControlUnderscore
		}
		devWrap.SetControl(ctrl)
		x.Device = devWrap

		displayConfig := &text_display.TextDisplayConfig{
			Codepage:    devConfig.Codepage,
			ScrollDelay: helpers.IntMillisecondDefault(devConfig.ScrollDelayMs, 210*time.Millisecond),
			Width:       uint32(devConfig.Width),
			Rows:        uint32(devConfig.Rows),
		}
		disp, err := text_display.NewTextDisplay(displayConfig)
		if err != nil {
			return errors.Annotatef(err, "NewTextDisplay config=%#v", displayConfig)
		}
		disp.SetDevice(devWrap)
		x.Display = disp
		if g.Alive.Add(1) {
			go func() {
				defer g.Alive.Done()
				disp.Run()
			}()
			go func() {
				<-g.Alive.StopChan()
				disp.Stop()
			}()
		}
		return nil
	})
	return x.Display, err
}

func (g *Global) Backlight() (*backlight.Backlight, error) {
	x := &g.Hardware.Backlight
	err := x.do(func() error {
		if x.Ctl != nil { // testing mode preset
			return nil
		}

		devConfig := &g.Config.Hardware.Backlight
		if !devConfig.Enable {
			g.Log.Infof("backlight is disabled")
			return nil
		}

		bl := backlight.New(i2c.NewI2CBus(byte(devConfig.I2CBus)))
		if err := bl.Init(); err != nil {
			return errors.Annotatef(err, "backlight.Init config=%#v", devConfig)
		}
		x.Ctl = bl
		return nil
	})
	return x.Ctl, err
}

func (g *Global) initInput() {
	g.Hardware.initInput.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		g.Hardware.Input = input.NewDispatch(g.Log, g.Alive.StopChan())

		// support more input sources here
		sources := make([]input.Source, 0, 2)

		inputConfig := &g.Config.Hardware.Input
		if !inputConfig.DevInputEvent.Enable {
			g.Log.Infof("input=%s disabled", input.DevInputEventTag)
		} else {
			src, err := input.NewDevInputEventSource(inputConfig.DevInputEvent.Device)
			if err != nil {
				g.Log.Error(errors.Annotatef(err, "input=%s", input.DevInputEventTag))
			} else {
				sources = append(sources, src)
			}
		}

		if !inputConfig.GpioJoystick.Enable {
			g.Log.Infof("input=%s disabled", input.GpioJoystickTag)
		} else {
			src, err := input.NewGpioJoystickSource(inputConfig.GpioJoystick.PinChip, inputConfig.GpioJoystick.Pinmap)
			if err != nil {
				g.Log.Error(errors.Annotatef(err, "input=%s", input.GpioJoystickTag))
			} else {
				sources = append(sources, src)
			}
		}

		go g.Hardware.Input.Run(sources)
	})
}
