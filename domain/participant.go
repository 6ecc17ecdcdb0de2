// Package domain contains core concepts of the presence session.
// This file defines how a participant moved into or out of a group.
package domain

// Reason explains a membership change.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonOffline
	ReasonKicked
	ReasonBusy
	ReasonInvited
	ReasonBanned
	ReasonError
	ReasonInvalidContact
	ReasonNoAnswer
	ReasonRenamed
	ReasonPermissionDenied
	ReasonSeparated
)

var reasonNames = map[Reason]string{
	ReasonNone:             "none",
	ReasonOffline:          "offline",
	ReasonKicked:           "kicked",
	ReasonBusy:             "busy",
	ReasonInvited:          "invited",
	ReasonBanned:           "banned",
	ReasonError:            "error",
	ReasonInvalidContact:   "invalid-contact",
	ReasonNoAnswer:         "no-answer",
	ReasonRenamed:          "renamed",
	ReasonPermissionDenied: "permission-denied",
	ReasonSeparated:        "separated",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// PendingInfo is kept for every handle awaiting local approval.
type PendingInfo struct {
	Actor   Handle
	Reason  Reason
	Message string
}

// LocalPendingMember pairs a local-pending handle with its PendingInfo.
type LocalPendingMember struct {
	Handle Handle
	PendingInfo
}
