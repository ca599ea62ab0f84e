package text_display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	const width = 16
	spaces := strings.Repeat(" ", MaxWidth*2)
	canonical := func(input string, tick uint32) string {
		gap := uint32(width / 2)
		if uint32(len(input)) <= width {
			return (input + spaces)[:width]
		}
		help := input + spaces[:gap] + input
		offset := tick % (uint32(len(input)) + gap)
		return help[offset : offset+width]
	}

	type Case struct {
		name  string
		input string
	}
	cases := []Case{
		{"short", "foobar"},
		{"full", "full-length-line"},
		{"long1", "too-much-very-long-line"},
		{"long2", "too-much-very-long-line1;too-much-very-long-line2"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			for tick := uint32(0); tick < uint32(len(c.input)*3); tick++ {
				var buf [width]byte
				scrollWrap(buf[:], []byte(c.input), tick)
				expect := canonical(c.input, tick)
				result := string(buf[:])
				if result != expect {
					t.Errorf("input=(%d)'%s' tick=%d expected=(%d)'%s' actual=(%d)'%s'",
						len(c.input), c.input, tick, len(expect), expect, len(result), result)
				}
			}
		})
	}
}

func TestWriteOption(t *testing.T) {
	t.Parallel()

	d := NewMockTextDisplay(&TextDisplayConfig{Width: 16, Rows: 3})
	d.WriteOption(0, 1, "", "Pirate")
	d.WriteOption(1, 1, ">", "Monkey")
	d.WriteOption(2, 1, "", "Robot")

	state := d.State()
	require.Equal(t, 3, len(state.Rows))
	assert.Equal(t, " Pirate         ", string(state.Rows[0]))
	assert.Equal(t, ">Monkey         ", string(state.Rows[1]))
	assert.Equal(t, " Robot          ", string(state.Rows[2]))
}

func TestMessage(t *testing.T) {
	t.Parallel()

	d := NewMockTextDisplay(&TextDisplayConfig{Width: 16, Rows: 3})
	d.SetRows("one", "two", "three")
	before := d.State().Format(16)

	waited := false
	d.Message("hold", "on", func() {
		waited = true
		assert.Equal(t, "      hold      \n       on       \n                ", d.State().Format(16))
	})
	assert.True(t, waited)
	assert.Equal(t, before, d.State().Format(16))
}

// Every select spawns a task, so two Message calls may overlap.
func TestMessageConcurrent(t *testing.T) {
	t.Parallel()

	d := NewMockTextDisplay(&TextDisplayConfig{Width: 16, Rows: 3})
	d.SetRows("one", "two", "three")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			d.Message("a", "b", func() {})
		}
	}()
	for i := 0; i < 500; i++ {
		d.Message("c", "d", func() {})
	}
	<-done
	assert.Equal(t, 3, len(d.State().Rows))
}

func TestRowsOutOfRange(t *testing.T) {
	t.Parallel()

	d := NewMockTextDisplay(&TextDisplayConfig{Width: 8, Rows: 2})
	d.SetRow(5, "ignored")
	d.SetRow(-1, "ignored")
	assert.Equal(t, "        \n        ", d.State().Format(8))
}
