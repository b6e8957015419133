// Package views derives the chart-ready tables behind each dashboard page.
//
// Every function is pure: inputs are never modified and each call returns
// a freshly allocated slice. An empty result is an empty, non-nil slice,
// never an error, so renderers have a single shape to handle.
package views
