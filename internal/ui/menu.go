package ui

import (
	"context"
	"sync"

	"github.com/juju/errors"
)

// Menu owns a named set of options and forwards navigation to the
// active one. Input arrives from the event loop goroutine while actions
// run in tasks, hence the lock.
type Menu struct {
	mu      sync.Mutex
	options map[string]Option
	active  string
}

func NewMenu() *Menu {
	return &Menu{options: make(map[string]Option)}
}

func (self *Menu) Add(name string, opt Option) error {
	if name == "" || opt == nil {
		panic("code error Menu.Add() empty name or option=nil")
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	if _, ok := self.options[name]; ok {
		return errors.Errorf("menu option=%s already registered", name)
	}
	self.options[name] = opt
	if self.active == "" {
		self.active = name
	}
	return nil
}

func (self *Menu) SetActive(name string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if _, ok := self.options[name]; !ok {
		return errors.NotFoundf("menu option=%s", name)
	}
	self.active = name
	return nil
}

func (self *Menu) Active() (string, Option) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.active, self.options[self.active]
}

func (self *Menu) Len() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.options)
}

func (self *Menu) Up() {
	if _, opt := self.Active(); opt != nil {
		opt.Up()
	}
}

func (self *Menu) Down() {
	if _, opt := self.Active(); opt != nil {
		opt.Down()
	}
}

// Right dispatches the active option's current action. Callers wanting a
// responsive redraw loop use Bind and run the result through the task
// registry instead.
func (self *Menu) Right(ctx context.Context) error {
	name, opt := self.Active()
	if opt == nil {
		return errors.Errorf("menu right active=%s option=nil", name)
	}
	return opt.Select(ctx)
}

// Bind snapshots the active option's current action at press time.
// Returns nil when the menu is empty.
func (self *Menu) Bind() (string, func(ctx context.Context) error) {
	name, opt := self.Active()
	if opt == nil {
		return name, nil
	}
	return name, opt.Bind()
}

func (self *Menu) Redraw(w RowWriter) {
	if _, opt := self.Active(); opt != nil {
		opt.Redraw(w)
	}
}
