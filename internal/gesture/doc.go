// Package gesture owns the captured-motion data model.
//
// Responsibilities: per-hand 3D point trails, their bounding limits,
// arclength and radius, pure transforms (normalize, mirror, resample,
// average) and the Spell label that groups example gestures.
// Key types: Gesture, Limits, Spell.
//
// Dependency rule: gesture depends only on contract and mathgl. It never
// imports preprocess, neural or learner. Every transform returns a new
// Gesture; a Gesture value is never mutated after construction, so it may
// be shared freely between the capture side and a training goroutine.
package gesture
