package regfile_test

import (
	"testing"

	"regfile"
	"regfile/rfdev"
)

// newTestRegfile builds the register file used across tests, backed by a
// counting in-memory device:
//
//	reg0      @0x0  write mask 0x1f   cfg[4:0]  status[31:16] (read-only)
//	reg1_high @0x4                    cfg[11:4] cfg_trigger[0] cfg_trigger_mode[1]
//	ctrl      @0x8                    mode[3:0] en[4] count[15:8] (max 100)
func newTestRegfile(t *testing.T) (*regfile.Regfile, *rfdev.Mem) {
	t.Helper()

	dev := rfdev.NewMem()
	rf, err := regfile.New("submod", dev, []regfile.RegisterDef{
		{
			Name: "reg0", Addr: 0x0, Width: 32, WriteMask: 0x0000001F,
			Fields: []regfile.Field{
				{Name: "cfg", Offset: 0, Width: 5},
				{Name: "status", Offset: 16, Width: 16},
			},
		},
		{
			Name: "reg1_high", Addr: 0x4, Width: 32,
			Fields: []regfile.Field{
				{Name: "cfg", Offset: 4, Width: 8},
				{Name: "cfg_trigger", Offset: 0, Width: 1},
				{Name: "cfg_trigger_mode", Offset: 1, Width: 1},
			},
		},
		{
			Name: "ctrl", Addr: 0x8, Width: 32,
			Fields: []regfile.Field{
				{Name: "mode", Offset: 0, Width: 4},
				{Name: "en", Offset: 4, Width: 1},
				{Name: "count", Offset: 8, Width: 8, Constraint: regfile.Range{Max: 100}},
			},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rf, dev
}

func checkCounts(t *testing.T, dev *rfdev.Mem, reads, writes int) {
	t.Helper()
	if dev.ReadCount != reads || dev.WriteCount != writes {
		t.Fatalf("transport ops: got %d reads / %d writes, want %d / %d",
			dev.ReadCount, dev.WriteCount, reads, writes)
	}
}
