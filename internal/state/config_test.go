package state

import (
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoizz/dotmenu/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", "", func(t testing.TB, c *Config) {
			assert.False(t, c.Hardware.LCD.Enable)
		}, ""},

		{"lcd",
			`hardware { lcd {
				enable = true
				pin_chip = "/dev/gpiochip0"
				pinmap { rs="25" rw="4" e="24" d4="23" d5="17" d6="27" d7="22" }
				width = 16
				rows = 3
			} }`,
			func(t testing.TB, c *Config) {
				assert.True(t, c.Hardware.LCD.Enable)
				assert.Equal(t, "25", c.Hardware.LCD.Pinmap.RS)
				assert.Equal(t, 3, c.Hardware.LCD.Rows)
			},
			"",
		},

		{"joystick",
			`hardware { input { gpio_joystick {
				enable = true
				pin_chip = "/dev/gpiochip0"
				pinmap { up="16" down="13" left="6" right="5" select="12" }
			} } }`,
			func(t testing.TB, c *Config) {
				assert.True(t, c.Hardware.Input.GpioJoystick.Enable)
				assert.Equal(t, "13", c.Hardware.Input.GpioJoystick.Pinmap.Down)
			},
			"",
		},

		{"ui-probe",
			`ui {
				menu { poll_ms = 20 marker = "*" entry = "hello" }
				idle_sec = 30
			}
			probe { target = "example.com" count = 2 }`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, 20, c.UI.Menu.PollMs)
				assert.Equal(t, "*", c.UI.Menu.Marker)
				assert.Equal(t, "hello", c.UI.Menu.Entry)
				assert.Equal(t, 30, c.UI.IdleSec)
				assert.Equal(t, "example.com", c.Probe.Target)
				assert.Equal(t, 2, c.Probe.Count)
			},
			"",
		},

		{"error-syntax", `hardware { lcd { `, nil, "config unmarshal"},

		{"error-include-loop", `include "main" {}`, nil, "config include loop"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(map[string]string{"main": c.input})
			cfg, err := ReadConfig(log, fs, "main")
			if c.expectErr == "" {
				require.NoError(t, err, errors.ErrorStack(err))
				if c.check != nil {
					c.check(t, cfg)
				}
			} else {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), c.expectErr),
					"error=%v expected substring=%s", err, c.expectErr)
			}
		}
	}
	for _, c := range cases {
		t.Run(c.name, mkCheck(c))
	}
}

func TestReadConfigInclude(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{
		"main":  `include "extra" {} ui { idle_sec = 10 }`,
		"extra": `ui { menu { poll_ms = 50 } } include "missing" { optional = true }`,
	})
	cfg, err := ReadConfig(log, fs, "main")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.UI.IdleSec)
	assert.Equal(t, 50, cfg.UI.Menu.PollMs)
}

func TestNewTestContext(t *testing.T) {
	t.Parallel()

	ctx, g := NewTestContext(t, `ui { menu { entry = "demo" } }`)
	require.NotNil(t, ctx)
	assert.Equal(t, "demo", g.Config.UI.Menu.Entry)
	assert.Equal(t, ">", g.Config.UI.Menu.Marker)
	assert.NotNil(t, g.Hardware.Input)
	assert.Same(t, g, GetGlobal(ctx))
	g.Alive.Stop()
}
