package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/xxxsen/cbdav/webdav"
)

// wrapError maps ctrl+c and ctrl+d to webdav.ErrPromptCancelled.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("%w: %w", webdav.ErrPromptCancelled, err)
	}
	return err
}

// splitPrompt keeps the last line as the input label, the lines before it
// are printed as is.
func splitPrompt(text string) (string, string) {
	text = strings.TrimRight(text, "\n")
	idx := strings.LastIndex(text, "\n")
	if idx < 0 {
		return "", strings.TrimSuffix(text, ":")
	}
	return strings.TrimRight(text[:idx], "\n"), strings.TrimSuffix(text[idx+1:], ":")
}

type terminal struct {
	out io.Writer
}

// Terminal asks for passwords on the controlling terminal, input is masked.
func Terminal() webdav.CredentialProvider {
	return &terminal{out: os.Stderr}
}

func (t *terminal) GetPassword(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	header, label := splitPrompt(text)
	if len(header) != 0 {
		fmt.Fprintln(t.out, header)
	}
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	pwd, err := p.Run()
	return pwd, wrapError(err)
}

func Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	rs, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, wrapError(err)
	}
	rs = strings.ToLower(rs)
	return rs == "y" || rs == "yes", nil
}

// ConfirmWithForce skips the question when force is set.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label)
}
