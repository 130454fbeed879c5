//go:build debug_mem_utils

package memutils

// DebugValidate calls Validate on the provided object and panics if it returns an error.
// This is a no-op unless the debug_mem_utils build tag is present.
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckPow2 verifies that value is a power of two and panics if it is not.
// This is a no-op unless the debug_mem_utils build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
	err := CheckPow2[T](value, name)
	if err != nil {
		panic(err)
	}
}
