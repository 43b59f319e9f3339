package component

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultName derives a registry key from a simple type name by lower-casing
// its first rune: "DemoController" → "demoController", "URLService" →
// "uRLService". Only the first rune changes.
func DefaultName(simpleName string) string {
	r, size := utf8.DecodeRuneInString(simpleName)
	if r == utf8.RuneError {
		return simpleName
	}
	return string(unicode.ToLower(r)) + simpleName[size:]
}

// SimpleName strips the package path from a qualified name.
func SimpleName(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

// PackageOf returns the package path part of a qualified name.
func PackageOf(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[:i]
	}
	return ""
}

// QualifiedName returns "<pkgpath>.<Name>" for t, looking through pointers.
// Unnamed types yield "".
func QualifiedName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// lookup key when working with interfaces.
//
//	key := component.TypeKey((*service.DemoService)(nil))
//	// "github.com/km-arc/go-mvc/demo/service.DemoService"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return QualifiedName(t)
}
