// Package services implements the driving port interfaces: ingestion,
// segmentation, embedding and question answering. Services hold the
// pipeline logic and orchestrate calls to the driven ports (adapters).
package services
