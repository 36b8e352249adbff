package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mbold\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "bold\nplain", StripANSI(in))
}

func TestKeyMessages(t *testing.T) {
	assert.Equal(t, "a", KeyPress('a').(tea.KeyMsg).String())
	assert.Equal(t, "enter", KeyEnter().(tea.KeyMsg).String())
	assert.Equal(t, "esc", KeyEsc().(tea.KeyMsg).String())
	assert.Equal(t, "tab", KeyTab().(tea.KeyMsg).String())
	assert.Equal(t, "down", KeyDown().(tea.KeyMsg).String())
	assert.Equal(t, "up", KeyUp().(tea.KeyMsg).String())

	msgs := KeyPressString("ph")
	require.Len(t, msgs, 2)
	assert.Equal(t, "p", msgs[0].(tea.KeyMsg).String())
	assert.Equal(t, "h", msgs[1].(tea.KeyMsg).String())
}
