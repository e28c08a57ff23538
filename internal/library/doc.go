// Package library manages an Austrian EnergyPlus resource library: the
// materials and constructions defined across a directory tree of IDF
// files, the U-values derived from them, and their compliance with the
// OIB RL6 limits and the Passivhaus targets.
package library
