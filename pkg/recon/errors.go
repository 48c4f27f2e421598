package recon

import (
	"fmt"
	"strings"
)

// SpecNotFoundError is returned when a spec reference is neither an existing
// file nor a catalog name.
type SpecNotFoundError struct {
	Ref     string
	Catalog []string
}

func (e *SpecNotFoundError) Error() string {
	return fmt.Sprintf("%s is not a file that exists or in %v", e.Ref, e.Catalog)
}

// SpecParseError is returned when a spec document is not valid JSON.
type SpecParseError struct {
	Source string
	Offset int64 // byte offset of a syntax error, 0 if unknown
	Err    error
}

func (e *SpecParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("unable to read JSON spec %s at offset %d: %v", e.Source, e.Offset, e.Err)
	}
	return fmt.Sprintf("unable to read JSON spec %s: %v", e.Source, e.Err)
}

func (e *SpecParseError) Unwrap() error { return e.Err }

// UnknownNodeError is returned when a node has no name or names a
// (software, action) pair without a registered builder.
type UnknownNodeError struct {
	Node string
	Key  Key
	Err  error
}

func (e *UnknownNodeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("node (%s) must have a \"name\" attribute", e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("unknown node %q (%s): %v", e.Node, e.Key, e.Err)
	}
	return fmt.Sprintf("unknown node %q (%s)", e.Node, e.Key)
}

func (e *UnknownNodeError) Unwrap() error { return e.Err }

// InvalidParameterError is returned by builders whose parameter schema
// rejects a node's parameters.
type InvalidParameterError struct {
	Node   string
	Path   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("node %q: parameter %q: %s", e.Node, e.Path, e.Reason)
}

// DuplicateNodeNameError lists the names used by more than one node.
type DuplicateNodeNameError struct {
	Names []string
}

func (e *DuplicateNodeNameError) Error() string {
	return fmt.Sprintf("duplicate node names: %s", strings.Join(e.Names, ", "))
}

// UnresolvedNodeError is returned when a node's input names a node that is
// not part of the spec.
type UnresolvedNodeError struct {
	Node  string
	Input string
}

func (e *UnresolvedNodeError) Error() string {
	return fmt.Sprintf("node %q: input %q does not name a node in the spec", e.Node, e.Input)
}

// DuplicateConnectionError is returned when a destination slot would be
// filled twice.
type DuplicateConnectionError struct {
	Existing Connection
	Rejected Connection
}

func (e *DuplicateConnectionError) Error() string {
	return fmt.Sprintf("slot %s already connected from %s; refusing %s",
		e.Existing.To, e.Existing.From, e.Rejected.From)
}

// CycleError is returned when input references form a cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}
