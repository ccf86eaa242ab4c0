// Package projector turns printer snapshots into display values.
//
// Everything here is pure: the same snapshot always yields the same view and
// nothing is cached between calls. Renderers call these functions on every
// frame. Missing optional fields never produce errors; they degrade to the
// non-breaking-space Placeholder or to omitted parts.
package projector
