package input

import (
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/gpio-cdev-go"
	"github.com/thenoizz/dotmenu/internal/types"
)

const GpioJoystickTag = "gpio-joystick"

// Joystick contacts are active-low: falling edge is a press.
type JoystickPinMap struct {
	Up     string `hcl:"up"`
	Down   string `hcl:"down"`
	Left   string `hcl:"left"`
	Right  string `hcl:"right"`
	Select string `hcl:"select"`
}

type GpioJoystickSource struct {
	chip gpio.Chiper
	bus  chan types.InputEvent
	errs chan error
}

var _ Source = new(GpioJoystickSource)

func (self *GpioJoystickSource) String() string { return GpioJoystickTag }

func NewGpioJoystickSource(chipName string, pinmap JoystickPinMap) (*GpioJoystickSource, error) {
	chip, err := gpio.Open(chipName, GpioJoystickTag)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio chip=%s", chipName)
	}
	self := &GpioJoystickSource{
		chip: chip,
		bus:  make(chan types.InputEvent),
		errs: make(chan error, 1),
	}

	lines := []struct {
		pin string
		key types.InputKey
	}{
		{pinmap.Up, types.KeyUp},
		{pinmap.Down, types.KeyDown},
		{pinmap.Left, types.KeyLeft},
		{pinmap.Right, types.KeyRight},
		{pinmap.Select, types.KeySelect},
	}
	for _, l := range lines {
		if l.pin == "" {
			continue
		}
		n, err := strconv.ParseUint(l.pin, 10, 32)
		if err != nil {
			return nil, errors.Annotatef(err, "joystick pin=%s", l.pin)
		}
		ev, err := chip.GetLineEvent(uint32(n), 0,
			gpio.GPIOEVENT_REQUEST_BOTH_EDGES, GpioJoystickTag)
		if err != nil {
			return nil, errors.Annotatef(err, "joystick line=%d", n)
		}
		go self.listenLine(ev, l.key)
	}
	return self, nil
}

func (self *GpioJoystickSource) Read() (types.InputEvent, error) {
	select {
	case event := <-self.bus:
		return event, nil
	case err := <-self.errs:
		return types.InputEvent{}, err
	}
}

func (self *GpioJoystickSource) listenLine(ev gpio.Eventer, key types.InputKey) {
	for {
		ed, err := ev.Wait(time.Hour)
		if gpio.IsTimeout(err) {
			continue
		}
		if err != nil {
			select {
			case self.errs <- errors.Annotatef(err, "joystick key=%s", key.String()):
			default:
			}
			return
		}
		self.bus <- types.InputEvent{
			Source: GpioJoystickTag,
			Key:    key,
			Up:     ed.ID == gpio.GPIOEVENT_EVENT_RISING_EDGE,
		}
	}
}
