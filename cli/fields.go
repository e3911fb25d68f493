package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/settings"
)

type SettingType int

const (
	String SettingType = iota
	Float
	Bool
)

// settingField is one editable entry of settings.Settings.
type settingField struct {
	title, desc string
	Type        SettingType
	get         func(s *settings.Settings) string
	set         func(s *settings.Settings, v string) error
}

func floatField(title, desc string, ptr func(s *settings.Settings) *float64) settingField {
	return settingField{
		title: title,
		desc:  desc,
		Type:  Float,
		get: func(s *settings.Settings) string {
			return strconv.FormatFloat(*ptr(s), 'f', -1, 64)
		},
		set: func(s *settings.Settings, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return errors.Wrapf(err, "%s must be a number", title)
			}
			*ptr(s) = f
			return nil
		},
	}
}

var settingFields = []settingField{
	{
		title: "Log Level",
		desc:  "How verbose logging is: debug, info, warn or error",
		Type:  String,
		get:   func(s *settings.Settings) string { return s.LogLevel },
		set: func(s *settings.Settings, v string) error {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "debug", "info", "warn", "error":
				s.LogLevel = strings.ToLower(strings.TrimSpace(v))
				return nil
			}
			return errors.Errorf("unknown log level %q", v)
		},
	},
	{
		title: "Metric Units",
		desc:  "Whether the cluster speed is in km/h (true) or mph (false)",
		Type:  Bool,
		get:   func(s *settings.Settings) string { return strconv.FormatBool(s.IsMetric) },
		set: func(s *settings.Settings, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrap(err, "metric units must be true or false")
			}
			s.IsMetric = b
			return nil
		},
	},
	floatField("Slowdown Start", "Seconds of travel before a camera at which slowing starts",
		func(s *settings.Settings) *float64 { return &s.AutoNaviSpeedCtrlStart }),
	floatField("Slowdown End", "Seconds of travel before a camera by which the limit must be reached",
		func(s *settings.Settings) *float64 { return &s.AutoNaviSpeedCtrlEnd }),
	floatField("Bump Distance", "Metres before a speed bump by which the bump speed must be reached",
		func(s *settings.Settings) *float64 { return &s.AutoNaviSpeedBumpDist }),
	floatField("Minimum Limit", "Camera limits below this are ignored",
		func(s *settings.Settings) *float64 { return &s.MinLimitSpeed }),
	floatField("Maximum Limit", "Camera limits above this are ignored",
		func(s *settings.Settings) *float64 { return &s.MaxLimitSpeed }),
	floatField("Minimum Bump Limit", "Speed bump limits below this are ignored",
		func(s *settings.Settings) *float64 { return &s.MinBumpLimitSpeed }),
	{
		title: "Network Interface",
		desc:  "Interface whose broadcast address is used for discovery",
		Type:  String,
		get:   func(s *settings.Settings) string { return s.Interface },
		set: func(s *settings.Settings, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return errors.New("interface cannot be empty")
			}
			s.Interface = v
			return nil
		},
	},
}

func fieldByTitle(title string) (settingField, bool) {
	for _, f := range settingFields {
		if f.title == title {
			return f, true
		}
	}
	return settingField{}, false
}
