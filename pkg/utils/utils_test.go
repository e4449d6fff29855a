package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Mars/Olympus_Mons"))
	assert.Equal(t, "America/New_York", LoadLocation("America/New_York").String())
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 10, 19, 17, 45, 3, 9, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestTry(t *testing.T) {
	assert.NoError(t, Try(func() error { return nil }))

	sentinel := errors.New("bad record")
	assert.ErrorIs(t, Try(func() error { return sentinel }), sentinel)

	err := Try(func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	assert.ErrorContains(t, err, "recovered")
}

func TestGoSafe(t *testing.T) {
	done := make(chan struct{})
	GoSafe(func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
