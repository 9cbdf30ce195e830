package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotNetwork is reported when a run targets a node that is not a Network
	ErrNotNetwork = errors.New("current node is not a network")
	// ErrEmptyDefinition is reported for an edge list without edges
	ErrEmptyDefinition = errors.New("edges are invalid or empty")
)

// LoadError is a failure while loading a subtree from the model store
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load children of %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FormatError is a malformed or empty edge-list file
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid network file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid network file: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ConsistencyError means an edge names an endpoint that was never synthesized.
// It signals a bug in the import pipeline, not bad user input.
type ConsistencyError struct {
	Name string
	Role string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal: %s endpoint %q has no synthesized node", e.Role, e.Name)
}

// NotFoundError is a model path that could not be resolved. Role names the
// pointer that led to it; Err is set when the store itself has no such node.
type NotFoundError struct {
	Path string
	Role string
	Err  error
}

func (e *NotFoundError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("node %q: %v", e.Path, e.Err)
	case e.Role == "":
		return fmt.Sprintf("node %q not found in loaded subtree", e.Path)
	default:
		return fmt.Sprintf("%s target %q not found in loaded subtree", e.Role, e.Path)
	}
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ValidationNotice is a user-facing remark attached to a node
type ValidationNotice struct {
	Path    string
	Message string
}

func (n ValidationNotice) Error() string {
	return n.Message
}

// Is lets a network-type notice match ErrNotNetwork
func (n ValidationNotice) Is(target error) bool {
	return target == ErrNotNetwork && n.Message == NotNetworkMessage
}

// NotNetworkMessage is shown when a plugin runs on a node that is not a network
const NotNetworkMessage = "Current project is an invalid type. Please run the plugin on a network."

// IsUserError reports whether err should be shown to the user as-is
func IsUserError(err error) bool {
	var (
		formatErr *FormatError
		notice    ValidationNotice
	)
	return errors.As(err, &formatErr) || errors.As(err, &notice) || errors.Is(err, ErrEmptyDefinition)
}
