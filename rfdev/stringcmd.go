package rfdev

import (
	"fmt"
	"strconv"
	"strings"
)

// ExecuteFunc runs one textual command against an external console (a
// simulator shell, a debug monitor over a serial line, ...) and returns its
// output.
type ExecuteFunc func(cmd string) (string, error)

// StringCmd forwards register operations as string commands:
//
//	read:  r<NBITS> <address>            e.g. "r32 0x1c"
//	write: w<NBITS> <address> <value>    e.g. "w32 0x80 0xf9852a"
//
// The read response is parsed as an integer in any Go literal base.
type StringCmd struct {
	execute   ExecuteFunc
	wordBytes int
}

func NewStringCmd(execute ExecuteFunc, wordBytes int) *StringCmd {
	return &StringCmd{execute: execute, wordBytes: wordBytes}
}

func (d *StringCmd) Read(addr uint64) (uint64, error) {
	out, err := d.execute(fmt.Sprintf("r%d 0x%x", 8*d.wordBytes, addr))
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(out), 0, 64)
}

func (d *StringCmd) Write(addr, value uint64) error {
	_, err := d.execute(fmt.Sprintf("w%d 0x%x 0x%x", 8*d.wordBytes, addr, value))
	return err
}

// StringCmdSubword is StringCmd for consoles whose write command takes a
// byte-select lane, letting partial writes go out narrowed instead of as
// read-modify-write pairs:
//
//	w32 0x80 0xf9852a 0x1
type StringCmdSubword struct {
	*Subword
	execute   ExecuteFunc
	wordBytes int
}

func NewStringCmdSubword(execute ExecuteFunc, wordBytes int) *StringCmdSubword {
	d := &StringCmdSubword{execute: execute, wordBytes: wordBytes}
	d.Subword = NewSubword(d.readWord, d.writeSubword, wordBytes)
	return d
}

func (d *StringCmdSubword) readWord(addr uint64) (uint64, error) {
	out, err := d.execute(fmt.Sprintf("r%d 0x%x", 8*d.wordBytes, addr))
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(out), 0, 64)
}

func (d *StringCmdSubword) writeSubword(addr, value uint64, size int) error {
	lanes := uint64(d.wordBytes - 1)
	bsel := (uint64(1)<<uint(size) - 1) << (addr & lanes)
	_, err := d.execute(fmt.Sprintf("w%d 0x%x 0x%x 0x%x",
		8*d.wordBytes, addr&^lanes, value, bsel))
	return err
}
