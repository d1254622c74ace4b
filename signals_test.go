package depict

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitSerializerCreated(_ *testing.T) {
	// Should not panic
	emitSerializerCreated(context.Background(), 3)
}

func TestEmitSerializeStart(_ *testing.T) {
	emitSerializeStart(context.Background(), "TestType")
}

func TestEmitSerializeComplete_Success(_ *testing.T) {
	emitSerializeComplete(context.Background(), "TestType", 100*time.Millisecond, nil)
}

func TestEmitSerializeComplete_Error(_ *testing.T) {
	emitSerializeComplete(context.Background(), "TestType", 100*time.Millisecond, errors.New("test error"))
}

func TestEmitEncodeStart(_ *testing.T) {
	emitEncodeStart(context.Background(), "json", "TestType")
}

func TestEmitEncodeComplete_Success(_ *testing.T) {
	emitEncodeComplete(context.Background(), "json", "TestType", 1024, 100*time.Millisecond, nil)
}

func TestEmitEncodeComplete_Error(_ *testing.T) {
	emitEncodeComplete(context.Background(), "json", "TestType", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	// Verify signals are properly initialized
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalSerializerCreated", SignalSerializerCreated},
		{"SignalSerializeStart", SignalSerializeStart},
		{"SignalSerializeComplete", SignalSerializeComplete},
		{"SignalEncodeStart", SignalEncodeStart},
		{"SignalEncodeComplete", SignalEncodeComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	// Verify keys are properly initialized
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyTypeName", KeyTypeName},
		{"KeyFormat", KeyFormat},
		{"KeyFieldCount", KeyFieldCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
