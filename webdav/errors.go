package webdav

import "errors"

var (
	ErrAuthorization    = errors.New("webdav authorization failure")
	ErrOperation        = errors.New("webdav operation failure")
	ErrNotAuthenticated = errors.New("webdav session not authenticated")
	ErrPromptCancelled  = errors.New("credential prompt cancelled")
)
