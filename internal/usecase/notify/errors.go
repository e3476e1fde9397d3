package notify

import "errors"

var (
	// ErrChannelDisabled is returned by Send on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidNotification is returned for a nil notification or one
	// without a kind or title.
	ErrInvalidNotification = errors.New("invalid notification")
)
