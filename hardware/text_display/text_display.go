package text_display

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/alive/v2"
)

const MaxWidth = 40
const DefaultWidth = 16
const DefaultRows = 3

var spaceBytes = bytes.Repeat([]byte{' '}, MaxWidth)

// TextDisplay holds the frame state for a row-oriented character display
// and pushes it to a Devicer, scrolling rows longer than the width.
type TextDisplay struct { //nolint:maligned
	alive *alive.Alive
	mu    sync.Mutex
	dev   Devicer
	tr    atomic.Value
	width uint32
	state State

	tickd time.Duration
	tick  uint32
	upd   chan<- State
}

type TextDisplayConfig struct {
	Codepage    string
	ScrollDelay time.Duration
	Width       uint32
	Rows        uint32
}

type Devicer interface {
	Clear()
	CursorYX(y, x uint8) bool
	Write(b []byte)
}

func NewTextDisplay(opt *TextDisplayConfig) (*TextDisplay, error) {
	if opt == nil {
		panic("code error NewTextDisplay() opt=nil")
	}
	width := opt.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width > MaxWidth {
		return nil, errors.Errorf("display width=%d over max=%d", width, MaxWidth)
	}
	rows := opt.Rows
	if rows == 0 {
		rows = DefaultRows
	}
	self := &TextDisplay{
		alive: alive.NewAlive(),
		tickd: opt.ScrollDelay,
		width: width,
		state: NewState(rows),
	}

	if opt.Codepage != "" {
		if err := self.SetCodepage(opt.Codepage); err != nil {
			return nil, errors.Trace(err)
		}
	}

	return self, nil
}

func (self *TextDisplay) SetCodepage(cp string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return err
	}
	self.tr.Store(tr)
	return nil
}

func (self *TextDisplay) SetDevice(dev Devicer) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.dev = dev
}

func (self *TextDisplay) SetScrollDelay(d time.Duration) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.tickd = d
}

func (self *TextDisplay) Width() uint32 { return atomic.LoadUint32(&self.width) }
func (self *TextDisplay) Rows() uint32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return uint32(len(self.state.Rows))
}

func (self *TextDisplay) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.state.Clear()
	self.flush()
}

// Message shows a temporary two-row note, then restores the previous frame.
func (self *TextDisplay) Message(s1, s2 string, wait func()) {
	self.mu.Lock()
	next := NewState(uint32(len(self.state.Rows)))
	next.Rows[0] = self.JustCenter(self.Translate(s1 + "\x00"))
	if len(next.Rows) > 1 {
		next.Rows[1] = self.JustCenter(self.Translate(s2 + "\x00"))
	}
	prev := self.state
	self.state = next
	self.flush()
	self.mu.Unlock()

	wait()

	self.mu.Lock()
	self.state = prev
	self.flush()
	self.mu.Unlock()
}

// SetRowBytes: nil = don't change, len=0 = set empty. Rows out of range are
// ignored, menu code stays oblivious of panel size.
func (self *TextDisplay) SetRowBytes(row int, b []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if row < 0 || row >= len(self.state.Rows) {
		return
	}
	if b != nil {
		self.state.Rows[row] = b
	}
	atomic.StoreUint32(&self.tick, 0)
	self.flush()
}

func (self *TextDisplay) SetRow(row int, line string) {
	self.SetRowBytes(row, self.Translate(line))
}

func (self *TextDisplay) SetRows(lines ...string) {
	self.mu.Lock()
	defer self.mu.Unlock()

	for i := range self.state.Rows {
		if i < len(lines) {
			self.state.Rows[i] = self.Translate(lines[i])
		} else {
			self.state.Rows[i] = nil
		}
	}
	atomic.StoreUint32(&self.tick, 0)
	self.flush()
}

// WriteOption renders one menu row: icon glyph in a fixed margin, then label.
func (self *TextDisplay) WriteOption(row uint8, margin uint8, icon string, text string) {
	prefix := icon
	if n := int(margin) - len(icon); n > 0 {
		prefix += strings.Repeat(" ", n)
	}
	self.SetRow(int(row), prefix+text)
}

func (self *TextDisplay) Tick() {
	self.mu.Lock()
	defer self.mu.Unlock()

	atomic.AddUint32(&self.tick, 1)
	self.flush()
}

// Run drives the scroll ticker until Stop.
func (self *TextDisplay) Run() {
	self.mu.Lock()
	delay := self.tickd
	self.mu.Unlock()
	if delay == 0 {
		return
	}
	tmr := time.NewTicker(delay)
	stopch := self.alive.StopChan()

	for self.alive.IsRunning() {
		select {
		case <-tmr.C:
			self.Tick()
		case <-stopch:
			tmr.Stop()
			return
		}
	}
}

func (self *TextDisplay) Stop() { self.alive.Stop() }

// sometimes returns slice into shared spaceBytes
// sometimes returns `b` (len>=width-1)
// sometimes allocates new buffer
func (self *TextDisplay) JustCenter(b []byte) []byte {
	l := len(b)
	w := int(atomic.LoadUint32(&self.width))

	// optimize short paths
	if l == 0 {
		return spaceBytes[:w]
	}
	if l >= w-1 {
		return b
	}
	padtotal := w - l
	n := padtotal / 2
	padleft := spaceBytes[:n]
	padright := spaceBytes[:n+padtotal%2] // account for odd length
	buf := make([]byte, 0, w)
	buf = append(append(append(buf, padleft...), b...), padright...)
	return buf
}

// returns `b` when len>=width
// otherwise pads with spaces
func (self *TextDisplay) PadRight(b []byte) []byte {
	return PadSpace(b, self.width)
}

func (self *TextDisplay) Translate(s string) []byte {
	if len(s) == 0 {
		return spaceBytes[:0]
	}

	// pad by default, \x00 marks place for cursor
	pad := true
	if s[len(s)-1] == '\x00' {
		pad = false
		s = s[:len(s)-1]
	}

	result := []byte(s)
	tr, ok := self.tr.Load().(charset.Translator)
	if ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			panic(err)
		}
		// translator reuses single internal buffer, make a copy
		result = append([]byte(nil), tb...)
	}

	if pad {
		result = self.PadRight(result)
	}
	return result
}

func (self *TextDisplay) SetUpdateChan(ch chan<- State) {
	self.upd = ch
}

func (self *TextDisplay) State() State { return self.state.Copy() }

func (self *TextDisplay) flush() {
	tick := atomic.LoadUint32(&self.tick)
	for i, content := range self.state.Rows {
		var buf [MaxWidth]byte
		b := buf[:self.width]
		n := scrollWrap(b, content, tick)
		y := uint8(i + 1)

		// rewrite without clear, looks smoother
		// no padding: "erase" modified area, for now - whole line
		if n < self.width {
			self.dev.CursorYX(y, 1)
			self.dev.Write(spaceBytes[:self.width])
		}
		if len(content) > 0 {
			self.dev.CursorYX(y, 1)
			self.dev.Write(b[:n])
		}
	}

	if self.upd != nil {
		self.upd <- self.state.Copy()
	}
}

type State struct {
	Rows [][]byte
}

func NewState(rows uint32) State {
	return State{Rows: make([][]byte, rows)}
}

func (s *State) Clear() {
	for i := range s.Rows {
		s.Rows[i] = nil
	}
}

func (s State) Copy() State {
	new := State{Rows: make([][]byte, len(s.Rows))}
	for i, b := range s.Rows {
		new.Rows[i] = append([]byte(nil), b...)
	}
	return new
}

func (s State) Format(width uint32) string {
	ss := make([]string, len(s.Rows))
	for i, b := range s.Rows {
		ss[i] = string(PadSpace(b, width))
	}
	return strings.Join(ss, "\n")
}

func (s State) String() string {
	ss := make([]string, len(s.Rows))
	for i, b := range s.Rows {
		ss[i] = string(b)
	}
	return strings.Join(ss, "\n")
}

func PadSpace(b []byte, width uint32) []byte {
	l := uint32(len(b))

	if l == 0 {
		return spaceBytes[:width]
	}
	if l >= width {
		return b
	}
	buf := make([]byte, 0, width)
	buf = append(append(buf, b...), spaceBytes[:width-l]...)
	return buf
}

// relies that len(buf) == display width
func scrollWrap(buf []byte, content []byte, tick uint32) uint32 {
	length := uint32(len(content))
	width := uint32(len(buf))
	gap := uint32(width / 2)
	n := 0
	if length <= width {
		n = copy(buf, content)
		copy(buf[n:], spaceBytes)
		return uint32(n)
	}

	offset := tick % (length + gap)
	if offset < length {
		n = copy(buf, content[offset:])
	} else {
		gap = gap - (offset - length)
	}
	n += copy(buf[n:], spaceBytes[:gap])
	n += copy(buf[n:], content[0:])
	return uint32(n)
}

var _ fmt.Stringer = State{}
