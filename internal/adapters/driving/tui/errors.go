package tui

import "errors"

// ErrMissingAccountService is returned when the account service is not provided.
var ErrMissingAccountService = errors.New("tui: account service is required")

// ErrMissingSwapService is returned when the swap service is not provided.
var ErrMissingSwapService = errors.New("tui: swap service is required")
