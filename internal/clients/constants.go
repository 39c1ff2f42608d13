package clients

const (
	USER_AGENT = "centiment-forwarder/1.0 (+https://github.com/spacesedan/centiment-forwarder)"
)
