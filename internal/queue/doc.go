// Package queue persists the verification pipeline state in SQLite: one row
// per person moving through extraction and verification, the documents
// attached to them, and the reports produced for completed runs.
package queue
