// Package dataset reads and writes the external file formats: xlsx input and
// output tables, and parquet reference vocabularies.
//
// These are boundary collaborators of the harmonization core: missing or
// unreadable vocabulary and input files are fatal, while content-level
// oddities (short rows, empty descriptions) flow through as data and surface
// as sentinel match results.
package dataset
