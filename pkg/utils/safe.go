package utils

import (
	"fmt"
	"os"
)

// Try runs fn and converts a panic into an error.
func Try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	return fn()
}

// GoSafe runs fn in a goroutine that survives a panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "recovered goroutine panic: %v\n", r)
			}
		}()
		fn()
	}()
}
