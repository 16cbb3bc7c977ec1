package rtk

import "errors"

var (
	// ErrWindowLive is returned by New while another window is live in the
	// process. Close the previous window first.
	ErrWindowLive = errors.New("rtk: a window is already live")

	// ErrAlreadyOpen is returned by Open on a window that is already open.
	ErrAlreadyOpen = errors.New("rtk: window is already open")

	// ErrNoSurface is returned by New when the config carries no host
	// surface.
	ErrNoSurface = errors.New("rtk: a host surface is required")
)
