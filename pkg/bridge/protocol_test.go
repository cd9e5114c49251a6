package bridge

import (
	"encoding/json"
	"testing"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   bool
	}{
		{"same version", "v1.1.0", true},
		{"oldest supported", "v1.0.0", true},
		{"prerelease of current", "v1.1.0-rc.1", true},
		{"below oldest supported", "v1.0.0-beta", false},
		{"newer minor", "v1.2.0", false},
		{"newer major", "v2.0.0", false},
		{"older major", "v0.9.0", false},
		{"missing v prefix", "1.1.0", false},
		{"garbage", "latest", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.remote); got != tt.want {
				t.Errorf("Compatible(%q) = %v, expected %v", tt.remote, got, tt.want)
			}
		})
	}
}

func TestHandshakeRoundTrip(t *testing.T) {
	data, err := json.Marshal(NewHandshake())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"protocol":"v1.1.0"}` {
		t.Errorf("unexpected handshake document %s", data)
	}

	var hs Handshake
	if err := json.Unmarshal(data, &hs); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !Compatible(hs.Protocol) {
		t.Error("expected own handshake to be compatible")
	}
}
