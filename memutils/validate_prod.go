//go:build !debug_mem_utils

package memutils

// DebugValidate is a no-op unless the debug_mem_utils build tag is present.
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 is a no-op unless the debug_mem_utils build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}
