package debugui

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

// fieldKind says how the value viewer draws a field.
type fieldKind uint8

const (
	fieldValue fieldKind = iota
	fieldNested
	fieldSecret
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// secretNames are field name fragments whose values are never displayed.
var secretNames = []string{"Password", "Secret", "Token"}

// FieldInfo describes one displayable struct field.
type FieldInfo struct {
	Label   string
	Index   int
	Pointer bool
	kind    fieldKind
}

// ReflectionCache memoizes how the fields of a struct type are displayed.
// Unexported fields and fields tagged `debug:"-"` are left out; a
// `debug:"label"` tag renames the field and `debug:",secret"` masks it.
type ReflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{fields: make(map[reflect.Type][]FieldInfo)}
}

// Fields returns the displayable fields of t, or nil when t is not a struct.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fields[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if cached, ok := rc.fields[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			if info, ok := describeField(t.Field(i)); ok {
				info.Index = i
				fields = append(fields, info)
			}
		}
	}
	rc.fields[t] = fields
	return fields
}

func describeField(f reflect.StructField) (FieldInfo, bool) {
	if !f.IsExported() {
		return FieldInfo{}, false
	}
	label, opts, _ := strings.Cut(f.Tag.Get("debug"), ",")
	if label == "-" {
		return FieldInfo{}, false
	}
	if label == "" {
		label = f.Name
	}

	typ := f.Type
	info := FieldInfo{Label: label, Pointer: typ.Kind() == reflect.Ptr}
	if info.Pointer {
		typ = typ.Elem()
	}

	switch {
	case opts == "secret" || isSecretName(f.Name):
		info.kind = fieldSecret
	case typ.Kind() == reflect.Struct && typ != durationType && typ != timeType:
		info.kind = fieldNested
	}
	return info, true
}

func isSecretName(name string) bool {
	for _, s := range secretNames {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

var globalReflectionCache = NewReflectionCache()
