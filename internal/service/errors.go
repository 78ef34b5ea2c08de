package service

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotReady        = errors.New("processing not completed yet")
	ErrRunFailed       = errors.New("processing failed")
	ErrQueueFull       = errors.New("processing queue is full")
	ErrWorkerStopped   = errors.New("worker stopped")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)
