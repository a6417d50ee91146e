// Package nominationservice implements the nomination board inside the
// chapter-operations context.
//
// The module turns approached or self-identified candidates into formal
// nominations, runs the approve/reject review gate, and serves the approved
// set that ballots are built from. Approval is the only path onto a ballot.
package nominationservice
