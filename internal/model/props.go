package model

import "reflect"

// Props is one level of keyed render inputs for a component.
//
// Values are compared with ShallowEqual only - nested structure is never
// inspected. A view that wants change detection on a list must pass the
// list itself, not a copy.
type Props map[string]any

// ShallowEqual reports whether two prop values are equal one level deep.
//
// Semantics mirror host-framework identity comparison:
//   - nil equals only nil
//   - slices are equal iff they share the same backing array AND length
//     (a re-slice or append that moved the data is a different value)
//   - maps, pointers, channels and funcs are equal iff they are the same
//     reference
//   - everything else comparable is compared by ==
//
// Deep equality is deliberately NOT used: two lists with equal elements but
// different references are different inputs and must trigger recomputation.
func ShallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Slice:
		// Identity of the slice header: backing pointer plus length.
		// Length participates so an append into spare capacity can never
		// alias the previous value.
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Pointer:
		return va.Pointer() == vb.Pointer()
	default:
		if !va.Type().Comparable() {
			return false
		}
		return a == b
	}
}

// PropsEqual reports whether prev and next have identical key sets and every
// value is ShallowEqual. A nil map equals an empty map.
func PropsEqual(prev, next Props) bool {
	if len(prev) != len(next) {
		return false
	}
	for k, pv := range prev {
		nv, ok := next[k]
		if !ok {
			return false
		}
		if !ShallowEqual(pv, nv) {
			return false
		}
	}
	return true
}
