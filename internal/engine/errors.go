// Package engine implements the three end-to-end operations spec §2
// describes as the system's data flow: sealing a tree into a new generation,
// verifying a tree against its full history, and diffing a tree against its
// history without hashing. It wires internal/mhltraverse, internal/hashing,
// internal/aggregate, and internal/history.Session together the way
// original_source/mhl/commands.py's subcommand bodies wire the equivalent
// Python modules together.
package engine

import "fmt"

// NoHistoryError reports that verify or diff was asked to check a root with
// no recorded generations at all, mirroring the Python original's
// NoMHLHistoryException (original_source/mhl/commands.py,
// verify_entire_folder_against_full_history_subcommand).
type NoHistoryError struct {
	Root string
}

func (e *NoHistoryError) Error() string {
	return fmt.Sprintf("no ascmhl history found at %s", e.Root)
}

// NewFilesFoundError reports that one or more files present in the file
// system have no recorded entry in any generation.
type NewFilesFoundError struct {
	Paths []string
}

func (e *NewFilesFoundError) Error() string {
	return fmt.Sprintf("%d new file(s) found that are not yet part of the history", len(e.Paths))
}

// MissingFilesError reports that one or more files recorded in history are
// no longer present in the file system.
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%d file(s) recorded in history are missing from the file system", len(e.Paths))
}

// VerificationFailedError reports that one or more files failed hash
// verification against their recorded original entry.
type VerificationFailedError struct {
	Count int
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("%d file(s) failed hash verification", e.Count)
}
