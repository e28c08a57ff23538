// Package idf reads and writes EnergyPlus Input Data Files.
//
// The format is a flat sequence of records. A record starts with a class
// name, carries comma-separated fields and ends with a semicolon. A `!`
// starts a comment that runs to end of line; the conventional `!- Field
// Name` annotations after each field are comments too and carry no meaning
// for the simulator.
//
// Parsing is deliberately forgiving (legacy library files contain stray
// NBSP characters, tabs and Windows-1252 umlauts), while output is strictly
// canonical: the same File always serializes to the same bytes, so
// generated models can be verified against golden files.
package idf
