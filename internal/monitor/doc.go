// Package monitor records training progress and renders it for humans.
//
// TrainingRecorder is a learner.Observer. It keeps the (iteration, error)
// curve of the latest run for every hand count, which SavePlot writes as
// an image with gonum/plot and RenderHTML writes as an interactive
// go-echarts page.
//
// Dependency rule: monitor depends on neural for Status only.
package monitor
