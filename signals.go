package depict

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serialization events.
var (
	SignalSerializerCreated = capitan.NewSignal("depict.serializer.created", "Serializer instantiated")
	SignalSerializeStart    = capitan.NewSignal("depict.serialize.start", "Serialization beginning")
	SignalSerializeComplete = capitan.NewSignal("depict.serialize.complete", "Serialization finished")
	SignalEncodeStart       = capitan.NewSignal("depict.encode.start", "Encode operation beginning")
	SignalEncodeComplete    = capitan.NewSignal("depict.encode.complete", "Encode operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeyFormat     = capitan.NewStringKey("format")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitSerializerCreated emits an event when a serializer is built.
func emitSerializerCreated(ctx context.Context, fieldCount int) {
	capitan.Emit(ctx, SignalSerializerCreated,
		KeyFieldCount.Field(fieldCount),
	)
}

// emitSerializeStart emits an event when serialization begins.
func emitSerializeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalSerializeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitSerializeComplete emits an event when serialization finishes.
func emitSerializeComplete(ctx context.Context, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitEncodeStart emits an event when an encode operation begins.
func emitEncodeStart(ctx context.Context, format, typeName string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
	)
}

// emitEncodeComplete emits an event when an encode operation finishes.
func emitEncodeComplete(ctx context.Context, format, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}
