package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrServe                = errors.New("http server error")
	ErrShutdown             = errors.New("http shutdown error")
	ErrEmptyCertPath        = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
)
