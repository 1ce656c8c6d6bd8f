package utils

import (
	"reflect"
	"strings"
)

// NormalizePtrDTO trims *string fields and rounds *float64 fields on a pointer-to-struct DTO.
// Only non-nil pointer fields are touched; nils stay nil so they are not applied as updates.
func NormalizePtrDTO(dto any) {
	s, ok := structElem(dto)
	if !ok {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		normalizeValue(f.Elem())
	}
}

// NormalizeDTO trims string fields and rounds float fields on a pointer-to-struct DTO.
// Nested structs and slices of structs (e.g. product rows) are normalized too.
// Fields tagged `normalize:"-"` (quantities) are left as sent.
func NormalizeDTO(dto any) {
	s, ok := structElem(dto)
	if !ok {
		return
	}
	normalizeStruct(s)
}

func structElem(dto any) (reflect.Value, bool) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, false
	}
	s := v.Elem()
	return s, s.Kind() == reflect.Struct
}

func normalizeStruct(s reflect.Value) {
	t := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.CanSet() || t.Field(i).Tag.Get("normalize") == "-" {
			continue
		}
		normalizeValue(f)
	}
}

func normalizeValue(f reflect.Value) {
	switch f.Kind() {
	case reflect.String:
		if f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	case reflect.Float64:
		if f.CanSet() {
			f.SetFloat(Round2(f.Float()))
		}
	case reflect.Struct:
		normalizeStruct(f)
	case reflect.Slice:
		for i := 0; i < f.Len(); i++ {
			if e := f.Index(i); e.Kind() == reflect.Struct {
				normalizeStruct(e)
			}
		}
	}
}
