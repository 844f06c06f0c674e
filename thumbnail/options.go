package thumbnail

import (
	"fmt"
	"reflect"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// String renders the size as "WxH", the form used in artifact names.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// valid reports whether both dimensions are positive.
func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Options is the per-call option set for one artifact request.
//
// Size is required. Quality is optional (zero means "use the configured
// default"). Extra carries arbitrary transform hints consumed opaquely
// by the engine; every hint is also folded into the canonical artifact
// name, so two option sets with the same key/value pairs always map to
// the same name regardless of construction order.
type Options struct {
	// Size is the target size of the artifact. Required.
	Size Size

	// Quality is the encoding quality (1-100). Zero selects the
	// component default.
	Quality int

	// Extra holds additional transform hints (e.g. "crop": true,
	// "bw": true, "watermark": "logo"). Keys with falsy values (false,
	// empty string, zero, nil) contribute nothing to the name and
	// should be treated as unset by engines.
	Extra map[string]interface{}
}

// Bool reports whether the named extra hint is set to boolean true.
func (o Options) Bool(key string) bool {
	v, ok := o.Extra[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// quality resolves the effective quality against a default.
func (o Options) quality(fallback int) int {
	if o.Quality > 0 {
		return o.Quality
	}
	return fallback
}

// truthy reports whether an extra option value participates in the
// artifact name. Mirrors the falsy filter of the naming scheme: nil,
// false, empty string, and zero of any numeric kind are dropped.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}
