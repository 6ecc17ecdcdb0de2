// Package domain contains core concepts of the presence session.
// This file defines handles and the namespaces they live in.
// No runtime, network, or UI logic should be added here.
package domain

import "fmt"

// HandleType selects an independent numbering space.
type HandleType int

const (
	Contact HandleType = iota + 1
	Room
	List
)

var HandleTypes = []HandleType{Contact, Room, List}

func (t HandleType) String() string {
	switch t {
	case Contact:
		return "contact"
	case Room:
		return "room"
	case List:
		return "list"
	default:
		return fmt.Sprintf("handle-type(%d)", int(t))
	}
}

func (t HandleType) Valid() bool {
	return t == Contact || t == Room || t == List
}

// Handle is only meaningful together with its HandleType and the
// repository that issued it. Zero is never a live handle.
type Handle uint32

const NoHandle Handle = 0

// Well-known contact list names. List handles are fixed for the lifetime
// of a repository and follow this order, starting at 1.
const (
	ListPublish   = "publish"
	ListSubscribe = "subscribe"
	ListKnown     = "known"
)

var ListNames = []string{ListPublish, ListSubscribe, ListKnown}
