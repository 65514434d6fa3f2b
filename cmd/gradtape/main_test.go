package main

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"512", 512},
		{"512B", 512},
		{"4K", 4 << 10},
		{"4KB", 4 << 10},
		{"64MB", 64 << 20},
		{"2G", 2 << 30},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBytes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, in := range []string{
		"abc",
		"MB",
		"-5",
		"10TB",
		"12xyz",
		strconv.Itoa(math.MaxInt>>10) + "G",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := parseBytes(in)
			assert.Error(t, err)
		})
	}
}

func TestRunRejectsBadMaxAlloc(t *testing.T) {
	old := *flagMaxAlloc
	t.Cleanup(func() { *flagMaxAlloc = old })
	*flagMaxAlloc = "abc"

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-max-alloc")
}

func TestRunSucceeds(t *testing.T) {
	assert.NoError(t, run(context.Background()))
}
