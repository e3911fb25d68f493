package settings

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/roadlimit/params"
	"pfeifer.dev/roadlimit/utils"
)

// Settings are the runtime tunables shared by the daemon and the limiter
// consumers. They are persisted as a json param so the interactive cli can
// edit them while the daemon is running.
type Settings struct {
	LogLevel               string  `json:"log_level"`
	IsMetric               bool    `json:"is_metric"`
	AutoNaviSpeedCtrlStart float64 `json:"auto_navi_speed_ctrl_start"`
	AutoNaviSpeedCtrlEnd   float64 `json:"auto_navi_speed_ctrl_end"`
	AutoNaviSpeedBumpDist  float64 `json:"auto_navi_speed_bump_dist"`
	MinLimitSpeed          float64 `json:"min_limit_speed"`
	MaxLimitSpeed          float64 `json:"max_limit_speed"`
	MinBumpLimitSpeed      float64 `json:"min_bump_limit_speed"`
	Interface              string  `json:"interface"`
}

func (s *Settings) Default() {
	s.LogLevel = "error"
	s.IsMetric = true
	s.AutoNaviSpeedCtrlStart = 22
	s.AutoNaviSpeedCtrlEnd = 6
	s.AutoNaviSpeedBumpDist = 10
	s.MinLimitSpeed = 20
	s.MaxLimitSpeed = 120
	s.MinBumpLimitSpeed = 10
	s.Interface = "wlan0"
}

func (s *Settings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	if ok, err := params.Exists(params.ParamPath(params.ROAD_LIMIT_SETTINGS)); !ok {
		utils.Logde(err)
		return false
	}
	data, err := params.GetParam(params.ROAD_LIMIT_SETTINGS)
	if err != nil {
		utils.Logde(err)
		return false
	}

	if err := s.Unmarshal(data); err != nil {
		utils.Loge(err)
		return false
	}

	s.SetLogLevel()

	return true
}

func (s *Settings) LoadWithRetries(tries int) {
	for range tries {
		if s.Load() {
			return
		}
		time.Sleep(1 * time.Second)
	}
	s.Save()
}

func (s *Settings) Save() {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		utils.Loge(errors.Wrap(err, "could not marshal settings"))
		return
	}
	params.EnsureParamDirectories()
	utils.Loge(errors.Wrap(params.PutParam(params.ROAD_LIMIT_SETTINGS, data), "could not save settings"))
}

func (s *Settings) Unmarshal(data []byte) error {
	return errors.Wrap(json.Unmarshal(data, s), "could not parse settings")
}

func (s *Settings) SetLogLevel() {
	slog.SetLogLoggerLevel(ParseLogLevel(s.LogLevel))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
