// Package neural implements a small multilayer perceptron and the
// backpropagation-with-momentum trainer that fits it.
//
// Responsibilities:
//   - Activation functions (sigmoid, tanh) and their derivatives.
//   - Perceptron, Layer and Network: forward propagation only.
//   - Trainer: stochastic gradient descent with momentum, run on a
//     background goroutine with cooperative cancellation.
//   - NetworkState: the serializable weight snapshot handed to storage.
//
// A Network is mutated only by a Trainer. Once a run has finished the
// network is read-only and Evaluate may be called from any goroutine.
//
// Dependency rule: neural depends only on contract, monitoring and
// timeutil. It knows nothing about gestures or grids.
package neural
