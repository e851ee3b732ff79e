// Package agent talks to the remote agent that answers chat messages.
//
// Every backend resolves the agent's answer into a Reply once, at the network
// boundary, so callers never inspect the wire format.
package agent

import "context"

// Fixed texts used when the agent answers without usable content.
const (
	UnableToProcessText = "Sorry, I couldn't process your request."
	ApologyText         = "Sorry, something went wrong. Please try again."
)

// ReplyKind identifies which shape of agent answer produced a Reply.
type ReplyKind int

const (
	// ReplyText is a successful answer whose payload was a plain string.
	ReplyText ReplyKind = iota
	// ReplyObject is a successful answer whose payload was an object carrying the text.
	ReplyObject
	// ReplyFallback is an answer that reported failure or carried no usable text.
	ReplyFallback
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyText:
		return "text"
	case ReplyObject:
		return "object"
	case ReplyFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Reply is the resolved assistant answer.
type Reply struct {
	Kind ReplyKind
	Text string
}

// Agent answers a single user message.
type Agent interface {
	Ask(ctx context.Context, message string) (Reply, error)
}
