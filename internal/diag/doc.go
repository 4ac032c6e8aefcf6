// Package diag writes diagnostic screenshots: the annotated capture saved when
// a run escalates, and the periodic capture loop behind `screenshot --every`.
package diag
