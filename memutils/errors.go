// Package memutils holds small utilities shared across the allocator that
// don't belong to any single component: alignment arithmetic, sentinel
// errors, running statistics, and a debug-only validation helper.
package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is returned from CheckPow2 when the number being tested is not a power of two.
var PowerOfTwoError error = errors.New("number must be a power of two")
