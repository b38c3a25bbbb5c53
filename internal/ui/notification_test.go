package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindDisplayUser(t *testing.T) {
	// GIVEN
	output := "root     tty1         2024-06-01 10:00\n" +
		"pi       tty7         2024-06-01 10:01 (:0)\n" +
		"guest    pts/0        2024-06-01 10:02 (:10)\n"

	// WHEN
	user, found := findDisplayUser(output, ":0")

	// THEN
	assert.True(t, found)
	assert.Equal(t, "pi", user)
}

func TestFindDisplayUser_NotFound(t *testing.T) {
	// WHEN
	_, found := findDisplayUser("root     tty1         2024-06-01 10:00\n\n", ":0")

	// THEN
	assert.False(t, found)
}
