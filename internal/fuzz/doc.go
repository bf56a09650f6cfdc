// Package fuzztests houses Go fuzz harnesses for the log decoder and the
// trace parser. They guard against panics on arbitrary input and check that
// every log the parser accepts yields a consistent profile.
package fuzztests
