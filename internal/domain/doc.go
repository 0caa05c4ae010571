// Package domain holds the lead record shared by the extraction, enrichment
// and records packages.
package domain
