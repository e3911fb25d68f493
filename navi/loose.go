package navi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The companion apps are not consistent about json types: numbers sometimes
// arrive as strings and flags as 0/1. These types accept both spellings.

type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.Wrapf(err, "could not parse number %q", s)
		}
		*n = Number(v)
		return nil
	}
	if bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")) {
		if b[0] == 't' {
			*n = 1
		} else {
			*n = 0
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n *Number) Or(def float64) float64 {
	if n == nil {
		return def
	}
	return float64(*n)
}

func (n *Number) IntOr(def int) int {
	if n == nil {
		return def
	}
	return int(*n)
}

type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = Flag(v)
		return nil
	}
	var n Number
	if err := n.UnmarshalJSON(b); err != nil {
		return errors.Wrap(err, "could not parse flag")
	}
	*f = n != 0
	return nil
}

func (f *Flag) Or(def bool) bool {
	if f == nil {
		return def
	}
	return bool(*f)
}

// Text is a string that also accepts a bare json number, keeping its literal
// spelling.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "could not parse text")
	}
	*t = Text(n.String())
	return nil
}

func (t *Text) Or(def string) string {
	if t == nil {
		return def
	}
	return string(*t)
}
