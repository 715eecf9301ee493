// Package regfile presents hardware control/status registers, collections of
// named bitfields packed into fixed-width addressable words, through a
// uniform read/write interface decoupled from the transport that actually
// moves the bytes.
//
// The layer is single-threaded and synchronous: it defines no locking and no
// timeouts, and any sharing across goroutines needs external
// synchronization. The only blocking points are the bound Device's read and
// write calls.
package regfile

import (
	"fmt"
	"strings"
)

// Regfile maps register names to definitions and binds them to a Device.
// Name lookups hand out fresh Entry handles; enumeration follows declaration
// order.
type Regfile struct {
	name string
	dev  Device
	base uint64

	regs  []*Register
	index map[string]*Register
}

type Option func(*Regfile)

// WithBaseAddr offsets every register address before it reaches the device.
func WithBaseAddr(base uint64) Option {
	return func(rf *Regfile) { rf.base = base }
}

// New builds a Regfile from register definitions, validating the whole
// layout up front: field overlap, span and duplicate checks per register,
// plus unique names and addresses across the file. Definition problems are
// fatal construction errors (ErrDefinition), never runtime surprises.
func New(name string, dev Device, defs []RegisterDef, opts ...Option) (*Regfile, error) {
	rf := &Regfile{
		name:  name,
		dev:   dev,
		regs:  make([]*Register, 0, len(defs)),
		index: make(map[string]*Register, len(defs)),
	}
	for _, opt := range opts {
		opt(rf)
	}

	addrs := make(map[uint64]string, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: %s: unnamed register", ErrDefinition, name)
		}
		if _, dup := rf.index[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate register %s", ErrDefinition, name, def.Name)
		}
		if other, dup := addrs[def.Addr]; dup {
			return nil, fmt.Errorf("%w: %s: registers %s and %s share address 0x%x",
				ErrDefinition, name, other, def.Name, def.Addr)
		}
		reg, err := newRegister(def)
		if err != nil {
			return nil, err
		}
		addrs[def.Addr] = def.Name
		rf.regs = append(rf.regs, reg)
		rf.index[def.Name] = reg
	}
	return rf, nil
}

func (rf *Regfile) Name() string     { return rf.name }
func (rf *Regfile) BaseAddr() uint64 { return rf.base }

// Device returns the bound transport.
func (rf *Regfile) Device() Device { return rf.dev }

// SetDevice rebinds the transport. Entries already handed out follow the
// new device on their next operation.
func (rf *Regfile) SetDevice(dev Device) { rf.dev = dev }

// Entry returns a fresh access handle for the named register.
func (rf *Regfile) Entry(name string) (*Entry, error) {
	reg, ok := rf.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no register %s (registers: %s)",
			ErrUnknownRegister, rf.name, name, strings.Join(rf.Names(), ", "))
	}
	e := &Entry{rf: rf, reg: reg}
	if reg.cached {
		e.desired = reg.value
	} else {
		e.desired = reg.reset
	}
	return e, nil
}

// MustEntry is Entry for statically known names, as produced by register
// file generators; it panics on unknown names.
func (rf *Regfile) MustEntry(name string) *Entry {
	e, err := rf.Entry(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Names returns the register names in declaration order.
func (rf *Regfile) Names() []string {
	names := make([]string, len(rf.regs))
	for i, reg := range rf.regs {
		names[i] = reg.name
	}
	return names
}

// Registers returns the register definitions in declaration order.
func (rf *Regfile) Registers() []*Register {
	return rf.regs
}

// ResetAll restores every register's declared reset value as its mirrored
// state, without touching the transport. Call it after the device itself
// has been reset.
func (rf *Regfile) ResetAll() {
	for _, reg := range rf.regs {
		reg.setCache(reg.reset)
	}
}

// InvalidateAll drops every register cache; subsequent accesses re-read.
func (rf *Regfile) InvalidateAll() {
	for _, reg := range rf.regs {
		reg.invalidate()
	}
}
