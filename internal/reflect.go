package internal

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/mitchellh/reflectwalk"
	"reflect"
)

// Bounded is implemented by anything with world space bounds (e.g. scene bodies).
type Bounded interface {
	BoundingBox() sdf.Box3
}

// CollectBounds walks root (usually a scene) and returns the bounding boxes of every Bounded value found, in walk
// order. Unexported fields and fields tagged `walk:"-"` are not visited (meshes and textures are too big to walk).
// Remember that reflect is relatively slow and results should be cached.
func CollectBounds(root interface{}) []sdf.Box3 {
	w := &boundsWalker{seen: map[uintptr]bool{}}
	err := reflectwalk.Walk([]interface{}{root} /* <-- Wrapper for root to work */, w)
	if err != nil {
		panic(err) // Shouldn't happen
	}
	return w.found
}

type boundsWalker struct {
	found []sdf.Box3
	seen  map[uintptr]bool // The same value may be reachable from several places
}

func (w *boundsWalker) Struct(v reflect.Value) error {
	if !v.CanAddr() {
		return nil
	}
	ptr := v.Addr()
	if !ptr.CanInterface() {
		return nil
	}
	if b, ok := ptr.Interface().(Bounded); ok {
		if w.seen[ptr.Pointer()] {
			return nil
		}
		w.seen[ptr.Pointer()] = true
		w.found = append(w.found, b.BoundingBox())
	}
	return nil
}

func (w *boundsWalker) StructField(f reflect.StructField, _ reflect.Value) error {
	if f.PkgPath != "" || f.Tag.Get("walk") == "-" {
		return reflectwalk.SkipEntry
	}
	return nil
}
