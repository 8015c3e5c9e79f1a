// Package processor contains the session logic of medtamil. It takes
// English input (typed, read from a batch file or transcribed from a
// recording), runs it through the hybrid translator, prints the Tamil
// result and turns it into speech. This package serves as the main
// coordinator between all other components.
package processor
