package prompt

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/cbdav/webdav"
)

func TestSplitPrompt(t *testing.T) {
	header, label := splitPrompt("WebDav Inventory is asking for Basic authentication\n\nPlease give your password:")
	assert.Equal(t, "WebDav Inventory is asking for Basic authentication", header)
	assert.Equal(t, "Please give your password", label)

	header, label = splitPrompt("Password:")
	assert.Equal(t, "", header)
	assert.Equal(t, "Password", label)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil))
	for _, err := range []error{promptui.ErrInterrupt, promptui.ErrEOF, promptui.ErrAbort} {
		assert.ErrorIs(t, wrapError(err), webdav.ErrPromptCancelled)
	}
	other := errors.New("tty gone")
	assert.Equal(t, other, wrapError(other))
}

func TestConfirmWithForce(t *testing.T) {
	ok, err := ConfirmWithForce("remove?", true)
	assert.NoError(t, err)
	assert.True(t, ok)
}
