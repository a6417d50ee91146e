// Package successionservice implements the succession cycle registry inside
// the chapter-operations context.
//
// The module owns succession cycle lifecycle (draft/active/completed/archived),
// the leadership position catalog, and the committee voter roster attached to
// each cycle. It keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package successionservice
