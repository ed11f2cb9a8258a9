package cmd

import "errors"

var (
	errExportNeedsFile    = errors.New("export requires --output-file")
	errCreditsDisabled    = errors.New("credit storage is not configured (credit backend is none)")
	errWatchNeedsLocalDir = errors.New("watching requires a local data directory")
)
