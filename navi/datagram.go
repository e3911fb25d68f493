package navi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var ErrMalformed = errors.New("malformed navigation datagram")

// Datagram is one decoded inbound packet. Nil fields were not present.
type Datagram struct {
	Active     *int
	RoadLimit  *RoadLimit
	Apilot     *Apilot
	RequestGps *bool
	Echo       json.RawMessage

	// CommandRejected is set when the packet carried the legacy "cmd" key.
	// Remote commands are never executed.
	CommandRejected bool
}

// Decode parses a datagram. Unknown keys are ignored. A packet that is not a
// utf-8 json object, or whose road_limit/apilot group cannot be read, returns
// an error wrapping ErrMalformed.
func Decode(b []byte) (Datagram, error) {
	d := Datagram{}
	if !utf8.Valid(b) {
		return d, errors.Wrap(ErrMalformed, "datagram is not utf-8")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return d, errors.Wrapf(ErrMalformed, "could not parse datagram json: %v", err)
	}
	if fields == nil {
		return d, errors.Wrap(ErrMalformed, "datagram is not a json object")
	}

	if _, ok := fields["cmd"]; ok {
		d.CommandRejected = true
	}

	if raw, ok := fields["request_gps"]; ok {
		var n Number
		request := false
		if err := n.UnmarshalJSON(raw); err == nil {
			request = n == 1
		}
		d.RequestGps = &request
	}

	if raw, ok := fields["echo"]; ok {
		d.Echo = append(json.RawMessage(nil), raw...)
	}

	if raw, ok := fields["active"]; ok {
		var n Number
		if err := n.UnmarshalJSON(raw); err != nil {
			slog.Debug("ignoring bad active value", "error", err, "value", string(raw))
		} else {
			active := int(n)
			d.Active = &active
		}
	}

	if raw, ok := fields["road_limit"]; ok && !isNull(raw) {
		rl := RoadLimit{}
		if err := json.Unmarshal(raw, &rl); err != nil {
			return d, errors.Wrapf(ErrMalformed, "could not parse road_limit: %v", err)
		}
		d.RoadLimit = &rl
	}

	if raw, ok := fields["apilot"]; ok && !isNull(raw) {
		a := Apilot{}
		if err := json.Unmarshal(raw, &a); err != nil {
			return d, errors.Wrapf(ErrMalformed, "could not parse apilot: %v", err)
		}
		d.Apilot = &a
	}

	return d, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Encode serializes the datagram back into the wire format. Used by the send
// command and by tests; the legacy cmd key is never written.
func (d Datagram) Encode() ([]byte, error) {
	out := map[string]any{}
	if d.Active != nil {
		out["active"] = *d.Active
	}
	if d.RoadLimit != nil {
		out["road_limit"] = d.RoadLimit
	}
	if d.Apilot != nil {
		out["apilot"] = d.Apilot
	}
	if d.RequestGps != nil {
		if *d.RequestGps {
			out["request_gps"] = 1
		} else {
			out["request_gps"] = 0
		}
	}
	if d.Echo != nil {
		out["echo"] = d.Echo
	}
	b, err := json.Marshal(out)
	return b, errors.Wrap(err, "could not encode datagram")
}
