// Package ballotengine implements selection meetings and committee voting
// inside the chapter-operations context.
//
// The module owns meeting lifecycle (scheduled/in_progress/completed/
// cancelled), ballot construction from approved nominations, one-vote-per-
// voter-per-nominee-per-meeting upserts, on-demand tallies, and the binding
// selection outcome per position. Vote mutations emit events through an
// outbox-backed relay worker. Business rules live in application/domain
// layers; infrastructure stays behind ports and adapters.
package ballotengine
