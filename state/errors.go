package state

import "errors"

var (
	// ErrNotIssued indicates no bond series has been issued in this store.
	ErrNotIssued = errors.New("state: bond series not issued")

	// ErrReportNotFound indicates a report index past the end of the sequence.
	ErrReportNotFound = errors.New("state: report not found")

	// ErrReentrantCall indicates a store transaction was opened from inside another one.
	ErrReentrantCall = errors.New("state: reentrant call")

	// ErrWriterBusy indicates the context ended while waiting for the write
	// transaction held by another caller.
	ErrWriterBusy = errors.New("state: gave up waiting for writer")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("state: required parameter is nil")

	// ErrReadOnly indicates a write through a read-only transaction.
	ErrReadOnly = errors.New("state: write in read-only transaction")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("state: store closed")
)
