// Package log defines the logging abstraction used across qproc.
//
// The library core logs through the Logger interface so embedders can plug in
// their own logging stack. A zerolog-backed adapter is provided for the CLI
// and a no-op logger is the library default.
package log
