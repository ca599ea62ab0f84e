// Menu-driven UI for a character LCD with joystick input.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/thenoizz/dotmenu/internal/probe"
	"github.com/thenoizz/dotmenu/internal/state"
	"github.com/thenoizz/dotmenu/internal/ui"
	"github.com/thenoizz/dotmenu/log2"
)

var log = log2.NewStderr(log2.LDebug)
var BuildVersion string = "unknown" // set by ldflags -X

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "dotmenu.hcl", "")
	if err := cmdline.Parse(os.Args[1:]); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	if sdnotify("START=1") {
		// under systemd assume journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))
	log.Debugf("config=%+v", g.Config)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigch
		log.Infof("signal=%v", sig)
		g.Stop()
	}()

	menu := new(ui.UI)
	if err := menu.Init(ctx); err != nil {
		g.Fatal(errors.Annotate(err, "ui.Init"))
	}
	if err := menu.Menu.Add("animals", animalsOption(g)); err != nil {
		g.Fatal(err)
	}

	sdnotify(daemon.SdNotifyReady)
	log.Debugf("dotmenu init complete, running")
	menu.Loop(ctx)

	sdnotify(daemon.SdNotifyStopping)
	g.StopWait()
	log.Infof("goodbye")
}

// The demo dispatch table. Pirate launches the network probe, Monkey shows
// a temporary note, the rest only log.
func animalsOption(g *state.Global) ui.Option {
	display := g.MustTextDisplay()

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
			display.Message("ooh ooh", "aah aah", func() {
				select {
				case <-time.After(2 * time.Second):
				case <-ctx.Done():
				}
			})
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

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
