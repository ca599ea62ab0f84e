// SN3218 18-channel LED driver behind the Display-o-Tron RGB backlight.
// Three RGB groups light the left/middle/right thirds of the LCD.
package backlight

import (
	"sync"

	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/hardware/i2c"
)

const (
	Addr = 0x54

	regShutdown = 0x00
	regPWM      = 0x01 // 18 channels
	regEnable   = 0x13 // 3 banks of 6 bits
	regUpdate   = 0x16
	regReset    = 0x17

	Groups   = 3
	channels = Groups * 3
)

type Backlight struct {
	bus i2c.I2CBus
	mu  sync.Mutex
	pwm [channels]byte
}

func New(bus i2c.I2CBus) *Backlight {
	return &Backlight{bus: bus}
}

func (self *Backlight) Init() error {
	if err := self.bus.Init(); err != nil {
		return errors.Annotate(err, "backlight")
	}
	if err := self.write(regReset, 0xff); err != nil {
		return err
	}
	if err := self.write(regShutdown, 0x01); err != nil {
		return err
	}
	// enable first 9 channels
	if err := self.write(regEnable, 0x3f, 0x07, 0x00); err != nil {
		return err
	}
	return self.flush()
}

// SetRGB lights every group with the same color.
func (self *Backlight) SetRGB(r, g, b byte) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	for group := 0; group < Groups; group++ {
		self.pwm[group*3+0] = r
		self.pwm[group*3+1] = g
		self.pwm[group*3+2] = b
	}
	return self.flushLocked()
}

// SetGroup lights a single group, 0=left 1=middle 2=right.
func (self *Backlight) SetGroup(group int, r, g, b byte) error {
	if group < 0 || group >= Groups {
		return errors.Errorf("backlight group=%d out of range", group)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.pwm[group*3+0] = r
	self.pwm[group*3+1] = g
	self.pwm[group*3+2] = b
	return self.flushLocked()
}

// Dim scales the current color down, num/den.
func (self *Backlight) Dim(num, den int) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	for i := range self.pwm {
		self.pwm[i] = byte(int(self.pwm[i]) * num / den)
	}
	return self.flushLocked()
}

func (self *Backlight) Off() error { return self.SetRGB(0, 0, 0) }

func (self *Backlight) Close() error {
	if err := self.write(regShutdown, 0x00); err != nil {
		return err
	}
	return self.bus.Close()
}

func (self *Backlight) flush() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.flushLocked()
}

func (self *Backlight) flushLocked() error {
	if err := self.write(regPWM, self.pwm[:]...); err != nil {
		return err
	}
	return self.write(regUpdate, 0xff)
}

func (self *Backlight) write(reg byte, values ...byte) error {
	buf := make([]byte, 0, 1+len(values))
	buf = append(buf, reg)
	buf = append(buf, values...)
	return errors.Annotatef(self.bus.Tx(Addr, buf, nil), "backlight reg=%02x", reg)
}
