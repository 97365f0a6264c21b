package rotlog

import (
	"fmt"
	"reflect"
)

// Maximum recursion depth to prevent stack overflow
const maxDumpDepth = 10

// maxDumpElements limits how many slice or array elements are written.
const maxDumpElements = 10

// Dump writes the structure of v at level, one line per field, element or
// map entry, under the heading name. Unexported struct fields are skipped
// and cycles are reported instead of followed. Nothing is walked when level
// is filtered out.
func (c *ContextLogger) Dump(level Level, name string, v interface{}) error {
	if !c.IsEnabled(level) {
		return nil
	}
	d := &dumper{cl: c, level: level, visited: make(map[uintptr]bool)}
	if name == emptyString {
		name = "value"
	}
	d.value(v, name, 0)
	return d.err
}

type dumper struct {
	cl      *ContextLogger
	level   Level
	visited map[uintptr]bool
	err     error
}

func (d *dumper) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	d.err = d.cl.Logf(d.level, format, args...)
}

func (d *dumper) value(v interface{}, prefix string, depth int) {
	if d.err != nil {
		return
	}
	if depth > maxDumpDepth {
		d.printf("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		d.printf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			d.printf("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.printf("%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		d.printf("%s: %s {", prefix, typ.String())
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}
			d.value(field.Interface(), prefix+"."+typ.Field(i).Name, depth+1)
		}
		d.printf("%s: }", prefix)

	case reflect.Map:
		if val.IsNil() {
			d.printf("%s: <nil>", prefix)
			return
		}
		d.printf("%s: %s (len: %d) {", prefix, typ.String(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			d.value(iter.Value().Interface(), key, depth+1)
		}
		d.printf("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			d.printf("%s: <nil>", prefix)
			return
		}
		d.printf("%s: %s (len: %d) {", prefix, typ.String(), val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			d.value(val.Index(i).Interface(), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
		if val.Len() > maxDumpElements {
			d.printf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.printf("%s: }", prefix)

	default:
		d.printf("%s: %v", prefix, val.Interface())
	}
}
