package ld2412

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		expect []byte
		fail   bool
	}{
		{name: "spaced", args: []string{"FD", "FC", "FB", "FA"}, expect: []byte{0xFD, 0xFC, 0xFB, 0xFA}},
		{name: "joined lowercase", args: []string{"fdfc"}, expect: []byte{0xFD, 0xFC}},
		{name: "0x prefixed", args: []string{"0xFD", "0x01"}, expect: []byte{0xFD, 0x01}},
		{name: "empty", args: nil, fail: true},
		{name: "odd length", args: []string{"FDF"}, fail: true},
		{name: "not hex", args: []string{"XYZ1"}, fail: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := ParseHex(tc.args)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, data)
		})
	}
}

func TestCannedFrames(t *testing.T) {
	for name, frame := range cannedFrames {
		data, err := ParseHex(strings.Fields(frame))
		require.NoError(t, err, "frame %q", name)
		// every LD2412 command frame carries the fixed header and tail
		require.Equal(t, []byte{0xFD, 0xFC, 0xFB, 0xFA}, data[:4], "frame %q", name)
		require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, data[len(data)-4:], "frame %q", name)
	}
}
