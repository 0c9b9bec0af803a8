package webdav

import "context"

// CredentialProvider returns the password for a prompt, a cancelled prompt
// should return ErrPromptCancelled.
type CredentialProvider interface {
	GetPassword(ctx context.Context, prompt string) (string, error)
}

type CredentialProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f CredentialProviderFunc) GetPassword(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func StaticPassword(pwd string) CredentialProvider {
	return CredentialProviderFunc(func(ctx context.Context, prompt string) (string, error) {
		return pwd, nil
	})
}
