// Develop and debug menus without LCD and joystick hardware: keyboard
// commands become synthetic input events, display frames echo to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/hardware/text_display"
	"github.com/thenoizz/dotmenu/helpers/cli"
	"github.com/thenoizz/dotmenu/internal/probe"
	"github.com/thenoizz/dotmenu/internal/state"
	"github.com/thenoizz/dotmenu/internal/types"
	"github.com/thenoizz/dotmenu/internal/ui"
	"github.com/thenoizz/dotmenu/log2"
)

var log = log2.NewStderr(log2.LDebug)

var commands = map[string]types.InputKey{
	"up":     types.KeyUp,
	"down":   types.KeyDown,
	"left":   types.KeyLeft,
	"right":  types.KeyRight,
	"select": types.KeySelect,
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "dotmenu.hcl", "")
	if err := cmdline.Parse(os.Args[1:]); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log)
	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	// hardware stays off, the mock display echoes frames below
	config.Hardware.LCD.Enable = false
	config.Hardware.Backlight.Enable = false
	config.Hardware.Input.DevInputEvent.Enable = false
	config.Hardware.Input.GpioJoystick.Enable = false

	width := uint32(config.Hardware.LCD.Width)
	rows := uint32(config.Hardware.LCD.Rows)
	display := text_display.NewMockTextDisplay(&text_display.TextDisplayConfig{Width: width, Rows: rows})
	g.Hardware.LCD.Display = display
	g.MustInit(ctx, config)

	updch := make(chan text_display.State)
	display.SetUpdateChan(updch)
	go func() {
		for frame := range updch {
			fmt.Printf("%s\n%s\n", strings.Repeat("-", int(display.Width())), frame.Format(display.Width()))
		}
	}()

	menu := new(ui.UI)
	if err := menu.Init(ctx); err != nil {
		g.Fatal(errors.Annotate(err, "ui.Init"))
	}
	if err := menu.Menu.Add("animals", demoOption(g)); err != nil {
		g.Fatal(err)
	}
	go menu.Loop(ctx)

	cli.MainLoop("dotmenu-dev", func(line string) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":

		case line == "quit" || line == "exit":
			g.StopWait()
			os.Exit(0)

		default:
			key, ok := commands[line]
			if !ok {
				log.Errorf("unknown command=%s", line)
				return
			}
			g.Hardware.Input.Emit(types.InputEvent{Source: "dev", Key: key})
			g.Hardware.Input.Emit(types.InputEvent{Source: "dev", Key: key, Up: true})
		}
	}, newCompleter())
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := make([]prompt.Suggest, 0, len(commands)+1)
	for name := range commands {
		suggests = append(suggests, prompt.Suggest{Text: name})
	}
	suggests = append(suggests, prompt.Suggest{Text: "quit"})
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterFuzzy(suggests, d.GetWordBeforeCursor(), true)
	}
}

func demoOption(g *state.Global) ui.Option {
	opt, err := ui.NewListOption("animals", g.Config.UI.Menu.Marker, []ui.Item{
		{Code: 1, Name: "Pirate", Action: func(ctx context.Context) error {
			summary, err := probe.Run(ctx, g.Config.Probe)
			if err != nil {
				return errors.Annotate(err, "probe")
			}
			g.Log.Infof("probe %s", summary)
			return nil
		}},
		{Code: 2, Name: "Monkey", Action: func(ctx context.Context) error {
			g.Log.Infof("ooh ooh")
			return nil
		}},
		{Code: 3, Name: "Robot", Action: func(ctx context.Context) error {
			g.Log.Infof("beep boop")
			return nil
		}},
		{Code: 4, Name: "Ninja", Action: func(ctx context.Context) error {
			g.Log.Infof("...")
			return nil
		}},
		{Code: 5, Name: "Dolphin", Action: func(ctx context.Context) error {
			g.Log.Infof("eee eee")
			return nil
		}},
	})
	if err != nil {
		g.Fatal(err)
	}
	return opt
}
