package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoizz/dotmenu/internal/types"
	"github.com/thenoizz/dotmenu/log2"
)

func TestDispatchDoubleSubscribe(t *testing.T) {
	log := log2.NewTest(t, log2.LDebug)
	dstop := make(chan struct{})
	d := NewDispatch(log, dstop)

	go func() {
		sub1stop := make(chan struct{})
		d.SubscribeChan("name", sub1stop)
		close(sub1stop)
		sub2stop := make(chan struct{})
		d.SubscribeChan("name", sub2stop)
		close(dstop)
	}()

	d.Run(nil)
}

func TestDispatchFanout(t *testing.T) {
	log := log2.NewTest(t, log2.LDebug)
	dstop := make(chan struct{})
	d := NewDispatch(log, dstop)
	substop := make(chan struct{})

	ch := d.SubscribeChan("chan", substop)
	funch := make(chan types.InputEvent, 1)
	d.SubscribeFunc("func", func(e types.InputEvent) { funch <- e }, substop)

	go d.Run(nil)
	press := types.InputEvent{Source: GpioJoystickTag, Key: types.KeyDown}
	emitted := make(chan struct{})
	go func() {
		d.Emit(press)
		close(emitted)
	}()

	e1 := <-ch
	e2 := <-funch
	assert.Equal(t, press, e1)
	assert.Equal(t, press, e2)
	assert.True(t, e1.Press())
	<-emitted
	close(dstop)
	close(substop)
}
