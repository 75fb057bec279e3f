// Package workflow drives persons through the verification pipeline. A
// bounded pool of workers claims queued persons and walks each one through
// the extraction and verification stages, persisting every transition so a
// restart resumes where the previous process stopped.
package workflow
