package log

import (
	"gopkg.in/Sirupsen/logrus.v0"
)

type Fields logrus.Fields

// EntryZ is a log entry under construction. Typed field accumulators avoid
// any allocation or formatting work when the entry's module is disabled;
// nothing is emitted until End is called.
type EntryZ struct {
	mod   Module
	level Level
	msg   string
	off   bool

	zfbuf [8]ZField
	zfidx int
}

func (mod Module) zentry(level Level, msg string) *EntryZ {
	return &EntryZ{
		mod:   mod,
		level: level,
		msg:   msg,
		off:   !mod.Enabled(level),
	}
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.zentry(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.zentry(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.zentry(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.zentry(ErrorLevel, msg) }

func (z *EntryZ) append(f ZField) *EntryZ {
	if !z.off && z.zfidx < len(z.zfbuf) {
		z.zfbuf[z.zfidx] = f
		z.zfidx++
	}
	return z
}

func (z *EntryZ) String(key, val string) *EntryZ {
	return z.append(ZField{Type: FieldTypeString, Key: key, String: val})
}

func (z *EntryZ) Bool(key string, val bool) *EntryZ {
	return z.append(ZField{Type: FieldTypeBool, Key: key, Boolean: val})
}

func (z *EntryZ) Hex8(key string, val uint8) *EntryZ {
	return z.append(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(val)})
}

func (z *EntryZ) Hex16(key string, val uint16) *EntryZ {
	return z.append(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(val)})
}

func (z *EntryZ) Hex32(key string, val uint32) *EntryZ {
	return z.append(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(val)})
}

func (z *EntryZ) Hex64(key string, val uint64) *EntryZ {
	return z.append(ZField{Type: FieldTypeHex64, Key: key, Integer: val})
}

func (z *EntryZ) Int(key string, val int64) *EntryZ {
	return z.append(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (z *EntryZ) Uint(key string, val uint64) *EntryZ {
	return z.append(ZField{Type: FieldTypeUint, Key: key, Integer: val})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.append(ZField{Type: FieldTypeError, Key: key, Error: err})
}

// End emits the entry through the backing logger.
func (z *EntryZ) End() {
	if z.off {
		return
	}
	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = modNames[z.mod]
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)
	switch z.level {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case PanicLevel:
		entry.Panic(z.msg)
	}
}

// printf-like family, for messages that don't warrant typed fields.

func (mod Module) logf(level Level, format string, args ...any) {
	if mod.Enabled(level) {
		entry := logrus.StandardLogger().WithField("_mod", modNames[mod])
		switch level {
		case DebugLevel:
			entry.Debugf(format, args...)
		case InfoLevel:
			entry.Infof(format, args...)
		case WarnLevel:
			entry.Warnf(format, args...)
		case ErrorLevel:
			entry.Errorf(format, args...)
		case FatalLevel:
			entry.Fatalf(format, args...)
		}
	}
}

func (mod Module) Debugf(format string, args ...any) { mod.logf(DebugLevel, format, args...) }
func (mod Module) Infof(format string, args ...any)  { mod.logf(InfoLevel, format, args...) }
func (mod Module) Warnf(format string, args ...any)  { mod.logf(WarnLevel, format, args...) }
func (mod Module) Errorf(format string, args ...any) { mod.logf(ErrorLevel, format, args...) }
func (mod Module) Fatalf(format string, args ...any) { mod.logf(FatalLevel, format, args...) }
