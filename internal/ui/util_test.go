package ui_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoizz/dotmenu/hardware/input"
	"github.com/thenoizz/dotmenu/hardware/text_display"
	"github.com/thenoizz/dotmenu/internal/state"
	"github.com/thenoizz/dotmenu/internal/types"
	"github.com/thenoizz/dotmenu/internal/ui"
)

const testDisplayWidth = 16
const testDisplayRows = 3

type tenv struct {
	ctx context.Context
	g   *state.Global
	ui  *ui.UI

	display        *text_display.TextDisplay
	displayUpdated chan text_display.State
	uiState        chan ui.State
	_T             func(lines ...string) string
	_Key           func(types.InputKey) types.Event
	_KeyUp         types.Event
	_KeyDown       types.Event
	_KeyRight      types.Event
	_Timeout       types.Event
}

type step struct {
	expect string
	inev   types.Event
	fun    func()
}

func uiTestSetup(t testing.TB, env *tenv, initState, endState ui.State) {
	env.display = text_display.NewMockTextDisplay(&text_display.TextDisplayConfig{
		Width: testDisplayWidth,
		Rows:  testDisplayRows,
	})
	env.g.Hardware.LCD.Display = env.display
	env.ui = &ui.UI{
		XXX_testHook: func(s ui.State) {
			t.Logf("testHook %s", s.String())
			if env.uiState != nil {
				select {
				case env.uiState <- s:
				default:
					t.Errorf("uiState chan full, add requireState(%s)", s.String())
				}
			}
			switch s {
			case endState: // success path
				env.g.Alive.Stop()
			case ui.StateDefault:
				t.Errorf("ui switch state=default")
				env.g.Alive.Stop()
			}
		},
	}
	err := env.ui.Init(env.ctx)
	require.NoError(t, err)
	env.ui.XXX_testSetState(initState)
	env.displayUpdated = make(chan text_display.State)
	env.display.SetUpdateChan(env.displayUpdated)
	env._T = func(lines ...string) string {
		ss := make([]string, testDisplayRows)
		for i := 0; i < testDisplayRows; i++ {
			line := ""
			if i < len(lines) {
				line = lines[i]
			}
			ss[i] = string(text_display.PadSpace(env.display.Translate(line), testDisplayWidth))
		}
		return strings.Join(ss, "\n")
	}
	env._Key = func(k types.InputKey) types.Event {
		return types.Event{Kind: types.EventInput, Input: types.InputEvent{Source: input.GpioJoystickTag, Key: k}}
	}
	env._KeyUp = env._Key(types.KeyUp)
	env._KeyDown = env._Key(types.KeyDown)
	env._KeyRight = env._Key(types.KeyRight)
	env._Timeout = types.Event{Kind: types.EventTime}
}

func uiTestWait(t testing.TB, env *tenv, steps []step) {
	waitch := env.g.Alive.WaitChan()

	for _, step := range steps {
		if step.fun != nil {
			step.fun()
			continue
		}

		select {
		case current := <-env.displayUpdated:
			t.Logf("display:\n%s\n%s\nevent=%s", current, strings.Repeat("-", testDisplayWidth), step.inev.String())
			require.Equal(t, step.expect, current.Format(testDisplayWidth))
			switch step.inev.Kind {
			case types.EventInvalid:

			case types.EventInput:
				env.g.Hardware.Input.Emit(step.inev.Input)

			case types.EventStop:
				env.g.Log.Debugf("emit types.EventStop")
				env.g.Alive.Stop()
				env.g.Alive.Wait()
				return

			case types.EventTime:

			default:
				t.Fatalf("test code error not supported event=%s", step.inev.String())
			}

		case <-waitch:
			if !(step.expect == "" && step.inev.Kind == types.EventInvalid) {
				t.Error("ui stopped before end of test")
			}
			return
		}
	}
	if env.g.Alive.IsRunning() {
		t.Logf("display:\n%s", env.display.State().Format(testDisplayWidth))
		t.Error("ui still running")
	}
	env.g.Alive.Wait()
}

func (env *tenv) requireState(t testing.TB, expect ui.State) {
	require.NotNil(t, env.uiState)
	current := <-env.uiState
	require.Equal(t, expect.String(), current.String())
}
