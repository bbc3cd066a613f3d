package navv1

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// fd returns the named field of m.
//
// Precondition: name must be a field of m's type.
func fd(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	f := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if f == nil {
		panic(fmt.Sprintf("navv1: %s has no field %q", m.Descriptor().FullName(), name))
	}
	return f
}

// String reads a string field.
func String(m protoreflect.Message, name string) string {
	return m.Get(fd(m, name)).String()
}

// SetString writes a string field.
func SetString(m protoreflect.Message, name, v string) {
	m.Set(fd(m, name), protoreflect.ValueOfString(v))
}

// Int reads an int32 field.
func Int(m protoreflect.Message, name string) int {
	return int(m.Get(fd(m, name)).Int())
}

// SetInt writes an int32 field.
func SetInt(m protoreflect.Message, name string, v int) {
	m.Set(fd(m, name), protoreflect.ValueOfInt32(int32(v)))
}

// Bool reads a bool field.
func Bool(m protoreflect.Message, name string) bool {
	return m.Get(fd(m, name)).Bool()
}

// SetBool writes a bool field.
func SetBool(m protoreflect.Message, name string, v bool) {
	m.Set(fd(m, name), protoreflect.ValueOfBool(v))
}

// Float reads a double field.
func Float(m protoreflect.Message, name string) float64 {
	return m.Get(fd(m, name)).Float()
}

// SetFloat writes a double field.
func SetFloat(m protoreflect.Message, name string, v float64) {
	m.Set(fd(m, name), protoreflect.ValueOfFloat64(v))
}

// Strings reads a repeated string field.
func Strings(m protoreflect.Message, name string) []string {
	l := m.Get(fd(m, name)).List()
	out := make([]string, l.Len())
	for i := range out {
		out[i] = l.Get(i).String()
	}
	return out
}

// SetStrings replaces a repeated string field.
func SetStrings(m protoreflect.Message, name string, vs []string) {
	f := fd(m, name)
	m.Clear(f)
	if len(vs) == 0 {
		return
	}
	l := m.Mutable(f).List()
	for _, v := range vs {
		l.Append(protoreflect.ValueOfString(v))
	}
}

// Message returns a message field for reading; unset fields read as empty.
func Message(m protoreflect.Message, name string) protoreflect.Message {
	return m.Get(fd(m, name)).Message()
}

// MutableMessage returns a message field for writing, allocating it if unset.
func MutableMessage(m protoreflect.Message, name string) protoreflect.Message {
	return m.Mutable(fd(m, name)).Message()
}

// Messages returns the elements of a repeated message field.
func Messages(m protoreflect.Message, name string) []protoreflect.Message {
	l := m.Get(fd(m, name)).List()
	out := make([]protoreflect.Message, l.Len())
	for i := range out {
		out[i] = l.Get(i).Message()
	}
	return out
}

// AppendMessage appends a new element to a repeated message field and
// returns it for writing.
func AppendMessage(m protoreflect.Message, name string) protoreflect.Message {
	l := m.Mutable(fd(m, name)).List()
	v := l.NewElement()
	l.Append(v)
	return v.Message()
}

// Time reads a google.protobuf.Timestamp field; ok is false when unset.
func Time(m protoreflect.Message, name string) (t time.Time, ok bool) {
	f := fd(m, name)
	if !m.Has(f) {
		return time.Time{}, false
	}
	ts := m.Get(f).Message()
	pb := &timestamppb.Timestamp{
		Seconds: Int64(ts, "seconds"),
		Nanos:   int32(Int(ts, "nanos")),
	}
	return pb.AsTime(), true
}

// SetTime writes a google.protobuf.Timestamp field.
func SetTime(m protoreflect.Message, name string, t time.Time) {
	pb := timestamppb.New(t)
	ts := MutableMessage(m, name)
	ts.Set(fd(ts, "seconds"), protoreflect.ValueOfInt64(pb.GetSeconds()))
	ts.Set(fd(ts, "nanos"), protoreflect.ValueOfInt32(pb.GetNanos()))
}

// Int64 reads an int64 field.
func Int64(m protoreflect.Message, name string) int64 {
	return m.Get(fd(m, name)).Int()
}
