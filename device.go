package regfile

import (
	"regfile/log"
)

// Device is the transport a Regfile is bound to. Addresses are absolute
// (regfile base plus register offset); values carry one full register word.
// Errors from a Device are the collaborator's own and are propagated
// unchanged by this layer: no retry, no timeout, no wrapping.
type Device interface {
	Read(addr uint64) (uint64, error)
	Write(addr uint64, value uint64) error
}

// MaskedWriter is an optional Device capability. A device implementing it
// takes over partial-word writes: mask marks the bits being changed and
// writeMask the register's writable bits (bits outside it are don't-care).
// Entries then skip their own read-modify-write and let the device pick the
// cheapest bus operation, e.g. a narrower subword store.
type MaskedWriter interface {
	WriteMasked(addr, value, mask, writeMask uint64) error
}

// BlockReader and BlockWriter are optional Device capabilities used by
// MemAccess for bulk transfers. Devices without them fall back to one
// word-sized operation per element.
type BlockReader interface {
	ReadBlock(addr uint64, n int) ([]uint64, error)
}

type BlockWriter interface {
	WriteBlock(addr uint64, values []uint64) error
}

type (
	ReadFunc  func(addr uint64) (uint64, error)
	WriteFunc func(addr, value uint64) error
)

// FuncDevice adapts a user-supplied read/write pair into a Device, applying
// a fixed address offset and debug-logging every raw operation.
type FuncDevice struct {
	read   ReadFunc
	write  WriteFunc
	offset uint64
	prefix string
}

type FuncDeviceOption func(*FuncDevice)

// WithOffset adds a fixed translation to every address before it reaches
// the underlying callables.
func WithOffset(offset uint64) FuncDeviceOption {
	return func(d *FuncDevice) { d.offset = offset }
}

// WithPrefix tags the device's log lines, useful when several devices share
// one process.
func WithPrefix(prefix string) FuncDeviceOption {
	return func(d *FuncDevice) { d.prefix = prefix }
}

func NewFuncDevice(read ReadFunc, write WriteFunc, opts ...FuncDeviceOption) *FuncDevice {
	d := &FuncDevice{read: read, write: write}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *FuncDevice) Read(addr uint64) (uint64, error) {
	value, err := d.read(addr + d.offset)
	if err != nil {
		return 0, err
	}
	log.ModDevice.DebugZ("read").
		String("dev", d.prefix).
		Hex64("addr", addr+d.offset).
		Hex64("val", value).
		End()
	return value, nil
}

func (d *FuncDevice) Write(addr, value uint64) error {
	log.ModDevice.DebugZ("write").
		String("dev", d.prefix).
		Hex64("addr", addr+d.offset).
		Hex64("val", value).
		End()
	return d.write(addr+d.offset, value)
}
