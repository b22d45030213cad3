package log

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

const DefaultRingSize = 100

// Ring keeps the most recent formatted log lines, newest first.
type Ring struct {
	mu    sync.Mutex
	size  int
	lines []string
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{size: size}
}

func (r *Ring) Add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append([]string{line}, r.lines...)
	if len(r.lines) > r.size {
		r.lines = r.lines[:r.size]
	}
}

func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

type ringCore struct {
	zapcore.LevelEnabler
	ring    *Ring
	encoder zapcore.Encoder
}

// NewRingCore renders entries in console format into ring.
func NewRingCore(ring *Ring, level zapcore.LevelEnabler) zapcore.Core {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	return &ringCore{
		LevelEnabler: level,
		ring:         ring,
		encoder:      zapcore.NewConsoleEncoder(encoderCfg),
	}
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &ringCore{LevelEnabler: c.LevelEnabler, ring: c.ring, encoder: c.encoder.Clone()}
	for _, field := range fields {
		field.AddTo(clone.encoder)
	}
	return clone
}

func (c *ringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *ringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	c.ring.Add(strings.TrimRight(buf.String(), "\n"))
	return nil
}

func (c *ringCore) Sync() error {
	return nil
}
