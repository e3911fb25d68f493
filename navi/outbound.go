package navi

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"pfeifer.dev/roadlimit/settings"
)

// AnnounceToken is broadcast so companion devices can find the daemon.
var AnnounceToken = []byte(settings.ANNOUNCE_TOKEN)

// Location is one vehicle gps sample relayed to the subscribed peer.
type Location struct {
	Latitude           float64
	Longitude          float64
	Altitude           float64
	Speed              float64
	BearingDeg         float64
	Accuracy           float64
	TimestampMs        int64
	VerticalAccuracy   float64
	BearingAccuracyDeg float64
	SpeedAccuracy      float64
}

// EncodeLocation writes the positional location array the companion apps
// expect.
func EncodeLocation(l Location) ([]byte, error) {
	b, err := json.Marshal(map[string][]any{
		"location": {
			l.Latitude,
			l.Longitude,
			l.Altitude,
			l.Speed,
			l.BearingDeg,
			l.Accuracy,
			l.TimestampMs,
			l.VerticalAccuracy,
			l.BearingAccuracyDeg,
			l.SpeedAccuracy,
		},
	})
	return b, errors.Wrap(err, "could not encode location")
}

// EncodeEcho returns the echo payload in compact form.
func EncodeEcho(raw json.RawMessage) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := json.Compact(&buf, raw); err != nil {
		return nil, errors.Wrap(err, "could not encode echo")
	}
	return buf.Bytes(), nil
}
