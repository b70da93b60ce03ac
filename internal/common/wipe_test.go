package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 7), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
