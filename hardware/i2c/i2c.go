package i2c

// Thanks to
// https://github.com/kidoman/embd and https://bitbucket.org/gmcbay/i2c

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const (
	// as defined in /usr/include/linux/i2c-dev.h
	I2C_RETRIES = 0x0701 /* number of times a device address should be polled when not acknowledging */
	I2C_TIMEOUT = 0x0702 /* set timeout in units of 10 ms */
	I2C_RDWR    = 0x0707 /* Combined R/W transfer (one STOP only) */

	// i2c_msg flags
	// as defined in /usr/include/linux/i2c.h
	I2C_M_RD = 0x0001 /* read data, from slave to master */
)

type i2c_msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type i2c_rdwr_ioctl_data struct {
	msgs uintptr
	nmsg uint32
}

// I2CBus interface is used to interact with the I2C bus.
type I2CBus interface {
	Init() error
	Close() error
	// Tx sends bw to addr then, for len(br)>0, reads into br in one transfer.
	Tx(addr byte, bw []byte, br []byte) error
}

type i2cBus struct {
	busNo       byte
	file        *os.File
	lk          sync.Mutex
	initialized bool
}

func NewI2CBus(busNo byte) I2CBus {
	return &i2cBus{busNo: busNo}
}

func (b *i2cBus) Init() error {
	b.lk.Lock()
	defer b.lk.Unlock()
	return b.init()
}

func (b *i2cBus) init() error {
	if b.initialized {
		return nil
	}

	var err error
	path := fmt.Sprintf("/dev/i2c-%d", b.busNo)
	if b.file, err = os.OpenFile(path, os.O_RDWR, os.ModeExclusive); err != nil {
		return errors.Annotatef(err, "i2c bus=%d open", b.busNo)
	}
	b.initialized = true
	return nil
}

func (b *i2cBus) Close() error {
	b.lk.Lock()
	defer b.lk.Unlock()
	if !b.initialized {
		return nil
	}
	b.initialized = false
	return b.file.Close()
}

func (b *i2cBus) Tx(addr byte, bw []byte, br []byte) error {
	b.lk.Lock()
	defer b.lk.Unlock()
	if err := b.init(); err != nil {
		return err
	}

	var msgs [2]i2c_msg
	nmsg := uint32(0)
	if len(bw) > 0 {
		msgs[nmsg] = i2c_msg{
			addr: uint16(addr),
			len:  uint16(len(bw)),
			buf:  uintptr(unsafe.Pointer(&bw[0])),
		}
		nmsg++
	}
	if len(br) > 0 {
		msgs[nmsg] = i2c_msg{
			addr:  uint16(addr),
			flags: I2C_M_RD,
			len:   uint16(len(br)),
			buf:   uintptr(unsafe.Pointer(&br[0])),
		}
		nmsg++
	}
	if nmsg == 0 {
		return nil
	}

	data := i2c_rdwr_ioctl_data{
		msgs: uintptr(unsafe.Pointer(&msgs[0])),
		nmsg: nmsg,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.file.Fd(), I2C_RDWR, uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return errors.Annotatef(errno, "i2c bus=%d addr=%02x tx", b.busNo, addr)
	}
	return nil
}
