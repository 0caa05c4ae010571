// Package data holds curated lookup tables used during enrichment.
package data
