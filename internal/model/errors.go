package model

import "errors"

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrEditSetNotFound     = errors.New("edit set not found")
	ErrSyncRunNotFound     = errors.New("sync run not found")
	ErrSyncAlreadyRunning  = errors.New("a sync run is already in progress")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("nautobot upstream unavailable")
)
