package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"Downtown":    "%downtown%",
		"Al_Barsha":   `%al\_barsha%`,
		"100% Marina": `%100\% marina%`,
		`Back\Slash`:  `%back\\slash%`,
		"":            "%%",
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}
