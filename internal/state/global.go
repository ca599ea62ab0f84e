package state

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/thenoizz/dotmenu/internal/task"
	"github.com/thenoizz/dotmenu/log2"
)

const ContextKey = "run/state-global"

// Global is the application context: configuration, hardware handles, task
// supervision. Created once in main (or per test), passed through context.
type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Hardware     hardware // hardware.go
	Log          *log2.Log
	Tasks        *task.Registry

	_copy_guard sync.Mutex //nolint:unused
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, ContextKey, g)

	return ctx, g
}

func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)
	g.BuildVersion = "test"
	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))

	return ctx, g
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	g.Log.Infof("build version=%s", g.BuildVersion)

	if g.Config.UI.Menu.Marker == "" {
		g.Config.UI.Menu.Marker = ">"
	}
	g.Config.Probe.Defaults()

	g.Tasks = task.NewRegistry(g.Log.Clone(log2.LInfo), g.Alive)

	g.initInput()

	if _, err := g.TextDisplay(); err != nil {
		return errors.Annotate(err, "text display")
	}
	if _, err := g.Backlight(); err != nil {
		return errors.Annotate(err, "backlight")
	}
	return nil
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	if err := g.Init(ctx, cfg); err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(err)
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait()
		g.Log.Fatal(err)
	}
}

func (g *Global) Stop() { g.Alive.Stop() }

// StopWait stops background tasks, blanks the hardware and waits for
// everything tied to Alive.
func (g *Global) StopWait() {
	g.Alive.Stop()
	if g.Tasks != nil {
		g.Tasks.StopWait()
	}
	if d := g.Hardware.LCD.Display; d != nil {
		d.Stop()
		d.Clear()
	}
	if b := g.Hardware.Backlight.Ctl; b != nil {
		g.Error(errors.Annotate(b.Off(), "backlight off"))
	}
	g.Alive.Wait()
}

func recoverFatal(log *log2.Log) {
	if r := recover(); r != nil {
		log.Fatalf("panic: %v", r)
	}
}
