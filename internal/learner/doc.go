// Package learner trains and queries one gesture classifier per hand count.
//
// Responsibilities:
//   - Turn labelled spells into training samples through the preprocessor.
//   - Run one neural.Trainer per hand count and publish each finished
//     network with a single atomic store.
//   - Classify gestures against a confidence threshold.
//
// Recognize never observes a network while it is being trained: training
// happens on a pending network that only becomes live once its run ends.
//
// Dependency rule: learner may import gesture, preprocess, neural and
// config. Storage and diagnostics plug in through SetNetwork and Observer.
package learner
