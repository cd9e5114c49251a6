package bridge

import "golang.org/x/mod/semver"

// ProtocolVersion identifies the change-record wire protocol spoken by this
// library.
const ProtocolVersion = "v1.1.0"

// oldestSupported is the oldest peer protocol still accepted. v1.0.0 peers
// predate reversed colormap names but read the same record format.
const oldestSupported = "v1.0.0"

// Handshake opens a sync session. Each peer sends its protocol version and
// checks the remote one with Compatible before exchanging records.
type Handshake struct {
	Protocol string `json:"protocol"`
}

// NewHandshake returns the handshake message for this library.
func NewHandshake() Handshake {
	return Handshake{Protocol: ProtocolVersion}
}

// Compatible reports whether a peer speaking remote can sync with this
// library: the same major version, no older than the oldest supported
// release, and no newer than this library.
func Compatible(remote string) bool {
	if !semver.IsValid(remote) {
		return false
	}
	if semver.Major(remote) != semver.Major(ProtocolVersion) {
		return false
	}
	if semver.Compare(remote, oldestSupported) < 0 {
		return false
	}
	return semver.Compare(remote, ProtocolVersion) <= 0
}
