// Package preprocess turns a variable-length gesture into the fixed-length
// feature vector consumed by the network.
//
// Responsibilities: voxelizing each hand's trail into a boolean grid inside
// a cube fitted to the gesture, and flattening that grid to 1.0/0.0 values.
// Key types: GridSize, Grid, Preprocessor.
//
// Dependency rule: preprocess may depend on gesture, never on neural or
// learner. The mapping is intentionally lossy: many points collapse into one
// cell so that the output length depends only on the configuration.
package preprocess
