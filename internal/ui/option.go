package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/juju/errors"
)

// RowWriter is the display surface an Option renders to.
// *text_display.TextDisplay satisfies it; tests may supply their own.
type RowWriter interface {
	Rows() uint32
	WriteOption(row uint8, margin uint8, icon string, text string)
}

// Option is a menu-item handler. Navigation mutates only the option's own
// state; rendering happens later from the host redraw loop. Bind snapshots
// the action under the cursor so the caller can run it in a task while
// navigation continues.
type Option interface {
	Up()
	Down()
	Bind() func(ctx context.Context) error
	Select(ctx context.Context) error
	Redraw(w RowWriter)
}

type Item struct {
	Code   uint16
	Name   string
	Action func(ctx context.Context) error
}

func (self *Item) String() string {
	return fmt.Sprintf("item code=%d name='%s'", self.Code, self.Name)
}

// ListOption cycles a cursor over a fixed item list and dispatches
// Select to the item under the cursor. Navigation runs on the UI loop
// goroutine while bound actions run in tasks, hence the lock.
type ListOption struct { //nolint:maligned
	Name   string
	Marker string

	mu     sync.Mutex
	items  []Item
	cursor uint16
}

func NewListOption(name, marker string, items []Item) (*ListOption, error) {
	if len(items) == 0 {
		return nil, errors.Errorf("option name=%s empty item list", name)
	}
	if len(items) > 0xffff {
		return nil, errors.Errorf("option name=%s too many items=%d", name, len(items))
	}
	if marker == "" {
		marker = ">"
	}
	return &ListOption{
		Name:   name,
		Marker: marker,
		items:  items,
	}, nil
}

func (self *ListOption) Len() int { return len(self.items) }

func (self *ListOption) Cursor() uint16 {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.cursor
}

func (self *ListOption) Current() Item {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.items[self.cursor]
}

func (self *ListOption) Up() {
	self.mu.Lock()
	self.cursor = addWrap(self.cursor, uint16(len(self.items)), -1)
	self.mu.Unlock()
}

func (self *ListOption) Down() {
	self.mu.Lock()
	self.cursor = addWrap(self.cursor, uint16(len(self.items)), +1)
	self.mu.Unlock()
}

// Bind snapshots the item under the cursor. Cursor motion after the
// snapshot cannot redirect the dispatch.
func (self *ListOption) Bind() func(ctx context.Context) error {
	item := self.Current()
	return func(ctx context.Context) error {
		if item.Action == nil {
			return errors.Errorf("code error %s action=nil", item.String())
		}
		return errors.Annotatef(item.Action(ctx), "option=%s %s", self.Name, item.String())
	}
}

func (self *ListOption) Select(ctx context.Context) error { return self.Bind()(ctx) }

// Redraw renders a window of items around the cursor, one per display row,
// with the marker on the cursor row only. Lists shorter than the window
// repeat labels, same as wrapping a longer list would.
func (self *ListOption) Redraw(w RowWriter) {
	rows := w.Rows()
	if rows == 0 {
		return
	}
	margin := uint8(len(self.Marker))
	size := uint16(len(self.items))
	cursor := self.Cursor()

	middle := uint16(rows / 2)
	for row := uint16(0); uint32(row) < rows; row++ {
		item := self.items[addWrap(cursor, size, int16(row)-int16(middle))]
		icon := ""
		if row == middle {
			icon = self.Marker
		}
		w.WriteOption(uint8(row), margin, icon, item.Name)
	}
}

// addWrap moves current by delta modulo size, correct for negative delta
// regardless of language modulo convention. Requires |delta| <= size.
func addWrap(current, size uint16, delta int16) uint16 {
	return uint16((int32(current) + int32(size) + int32(delta)) % int32(size))
}
