package regfile

import (
	"fmt"

	"github.com/go-faster/jx"
)

// JSON encoding of register state, for tooling that consumes dumps. Values
// are hex strings so that 64-bit words survive any JSON parser.

func (s *Snapshot) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("register")
	e.Str(s.reg.name)
	e.FieldStart("addr")
	e.Str(fmt.Sprintf("0x%x", s.reg.addr))
	e.FieldStart("value")
	e.Str(fmt.Sprintf("0x%x", s.value))
	e.FieldStart("fields")
	e.ObjStart()
	for i := range s.reg.fields {
		f := &s.reg.fields[i]
		e.FieldStart(f.Name)
		e.Str(fmt.Sprintf("0x%x", f.Extract(s.value)))
	}
	e.ObjEnd()
	e.ObjEnd()
}

// MarshalJSON encodes the snapshot as an object with the register name,
// address, word value and per-field values, fields in declaration order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.encode(&e)
	return e.Bytes(), nil
}

// DumpJSON reads every register once and returns the whole file's state as
// a JSON array of snapshots, in declaration order.
func (rf *Regfile) DumpJSON() ([]byte, error) {
	var e jx.Encoder
	e.ArrStart()
	for _, reg := range rf.regs {
		entry := &Entry{rf: rf, reg: reg}
		snap, err := entry.Read()
		if err != nil {
			return nil, err
		}
		snap.encode(&e)
	}
	e.ArrEnd()
	return e.Bytes(), nil
}
