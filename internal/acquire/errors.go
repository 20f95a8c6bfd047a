package acquire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Reason classifies an acquisition failure for messaging.
type Reason int

const (
	// ReasonTransport is any failure not covered by a narrower reason.
	ReasonTransport Reason = iota

	// ReasonRefNotFound means the requested tag or branch does not exist.
	ReasonRefNotFound

	// ReasonHostUnreachable means the remote host could not be contacted.
	ReasonHostUnreachable

	// ReasonLocalCopy means copying a local template directory failed.
	ReasonLocalCopy
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonRefNotFound:
		return "reference-not-found"
	case ReasonHostUnreachable:
		return "host-unreachable"
	case ReasonLocalCopy:
		return "local-copy-failure"
	default:
		return "transport-failure"
	}
}

// Error is a classified acquisition failure.
type Error struct {
	Reason Reason
	Source string
	Ref    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Reason {
	case ReasonRefNotFound:
		return fmt.Sprintf("version %s not found in %s", e.Ref, e.Source)
	case ReasonHostUnreachable:
		return fmt.Sprintf("cannot reach %s: %v", e.Source, e.Err)
	case ReasonLocalCopy:
		return fmt.Sprintf("copying template from %s: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("fetching template from %s: %v", e.Source, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Hint returns actionable guidance for the reason.
func (e *Error) Hint() string {
	switch e.Reason {
	case ReasonRefNotFound:
		return "This usually means the release tag is missing. Try the latest release, or pass --ref to pick another version."
	case ReasonHostUnreachable:
		return "Check your internet connection, DNS, and firewall/proxy settings."
	case ReasonLocalCopy:
		return "Check that the template directory exists and is readable."
	default:
		return ""
	}
}

// classifyGoGit maps go-git and network errors to a Reason.
func classifyGoGit(err error) Reason {
	var dnsErr *net.DNSError
	var opErr *net.OpError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonTransport
	case errors.Is(err, git.NoMatchingRefSpecError{}),
		errors.Is(err, plumbing.ErrReferenceNotFound):
		return ReasonRefNotFound
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return ReasonHostUnreachable
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return ReasonTransport
	}
	return classifyOutput(err.Error())
}

// classifyOutput maps git command output to a Reason by the messages git and
// its remote helpers print.
func classifyOutput(out string) Reason {
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "could not resolve host"),
		strings.Contains(lower, "unable to access"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "network is unreachable"):
		return ReasonHostUnreachable
	case strings.Contains(lower, "remote branch") && strings.Contains(lower, "not found"),
		strings.Contains(lower, "couldn't find remote ref"),
		strings.Contains(lower, "not a valid"),
		strings.Contains(lower, "reference not found"):
		return ReasonRefNotFound
	}
	return ReasonTransport
}
