// Package feed fetches and validates the homework status feed.
//
// This package is internal to homeworkbot. It owns the two untrusted-input
// boundaries of a poll cycle:
//
//   - [Client]: a single-attempt HTTP fetch of the feed, decoded as JSON
//   - [Validate]: structural validation of the decoded payload
//
// Every failure is marked with exactly one of [ErrTransport], [ErrProtocol],
// [ErrDecode] or [ErrSchema] so callers can classify it with errors.Is while
// the error text stays the human-readable cause.
package feed
