// Hardware smoke test: writes a pattern to the LCD and cycles backlight
// colors. Run on the device to verify wiring before dotmenu itself.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/hardware/backlight"
	"github.com/thenoizz/dotmenu/hardware/i2c"
	"github.com/thenoizz/dotmenu/hardware/lcd"
	"github.com/thenoizz/dotmenu/internal/state"
	"github.com/thenoizz/dotmenu/log2"
)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "dotmenu.hcl", "")
	if err := cmdline.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	l := log2.NewStderr(log2.LDebug)
	l.SetFlags(log2.LInteractiveFlags)
	config := state.MustReadConfig(l, state.NewOsFullReader(), *flagConfig)

	log.Printf("init lcd chip=%s pinmap=%+v", config.Hardware.LCD.PinChip, config.Hardware.LCD.Pinmap)
	d := new(lcd.LCD)
	if err := d.Init(config.Hardware.LCD.PinChip, config.Hardware.LCD.Pinmap); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	d.SetControl(lcd.ControlOn | lcd.ControlBlink)

	log.Printf("init backlight bus=%d", config.Hardware.Backlight.I2CBus)
	bl := backlight.New(i2c.NewI2CBus(byte(config.Hardware.Backlight.I2CBus)))
	if err := bl.Init(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	colors := [][3]byte{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 255},
	}
	for i := 0; ; i++ {
		d.Clear()
		d.CursorYX(1, 1)
		d.Write([]byte("dotmenu lcd-test"))
		d.CursorYX(2, 1)
		d.Write([]byte{byte('0' + i%10)})

		c := colors[i%len(colors)]
		log.Printf("backlight %v", c)
		if err := bl.SetRGB(c[0], c[1], c[2]); err != nil {
			log.Printf("backlight err=%v", err)
		}
		time.Sleep(2 * time.Second)

		// sweep single groups to spot dead channels
		for group := 0; group < backlight.Groups; group++ {
			if err := bl.Off(); err != nil {
				log.Printf("backlight err=%v", err)
			}
			if err := bl.SetGroup(group, c[0], c[1], c[2]); err != nil {
				log.Printf("backlight err=%v", err)
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
}
