package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
)

func TestParsePosition(t *testing.T) {
	p, err := parsePosition("7, 2")
	require.NoError(t, err)
	require.Equal(t, game.Position{Col: 7, Row: 2}, p)

	for _, bad := range []string{"", "7", "a,2", "7,b"} {
		_, err := parsePosition(bad)
		require.Error(t, err, bad)
	}
}
