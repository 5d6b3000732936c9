package git

import (
	stderrors "errors"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// isPermanentGitError reports errors that a retry cannot fix.
func isPermanentGitError(err error) bool {
	if err == nil {
		return false
	}
	if isAuthError(err) || isNotFound(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unsupported protocol") || strings.Contains(msg, "invalid reference") {
		return true
	}
	var nerr net.Error
	if stderrors.As(err, &nerr) {
		return !nerr.Timeout()
	}
	return false
}

func isAuthError(err error) bool {
	if stderrors.Is(err, transport.ErrAuthenticationRequired) || stderrors.Is(err, transport.ErrAuthorizationFailed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "auth") || strings.Contains(msg, "permission") || strings.Contains(msg, "denied")
}

func isNotFound(err error) bool {
	if stderrors.Is(err, transport.ErrRepositoryNotFound) || stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "couldn't find remote ref") || strings.Contains(msg, "no such file")
}
