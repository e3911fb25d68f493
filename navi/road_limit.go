package navi

import (
	"encoding/json"

	"pfeifer.dev/roadlimit/settings"
)

// RoadLimit is the road_limit group. A datagram carrying it replaces the whole
// group at once.
type RoadLimit struct {
	RoadLimitSpeed        float64 `json:"road_limit_speed"`
	IsHighway             bool    `json:"is_highway"`
	CamType               int     `json:"cam_type"`
	CamLimitSpeed         float64 `json:"cam_limit_speed"`
	CamLimitSpeedLeftDist float64 `json:"cam_limit_speed_left_dist"`
	SectionLimitSpeed     float64 `json:"section_limit_speed"`
	SectionLeftDist       float64 `json:"section_left_dist"`
	SectionAvgSpeed       float64 `json:"section_avg_speed"`
	SectionLeftTime       float64 `json:"section_left_time"`
	SectionAdjustSpeed    bool    `json:"section_adjust_speed"`
	CamSpeedFactor        float64 `json:"cam_speed_factor"`
}

// DefaultRoadLimit is what the daemon publishes while the group is absent.
func DefaultRoadLimit() RoadLimit {
	return RoadLimit{CamSpeedFactor: settings.CAMERA_SPEED_FACTOR}
}

func (r *RoadLimit) UnmarshalJSON(b []byte) error {
	var w struct {
		RoadLimitSpeed        *Number `json:"road_limit_speed"`
		IsHighway             *Flag   `json:"is_highway"`
		CamType               *Number `json:"cam_type"`
		CamLimitSpeed         *Number `json:"cam_limit_speed"`
		CamLimitSpeedLeftDist *Number `json:"cam_limit_speed_left_dist"`
		SectionLimitSpeed     *Number `json:"section_limit_speed"`
		SectionLeftDist       *Number `json:"section_left_dist"`
		SectionAvgSpeed       *Number `json:"section_avg_speed"`
		SectionLeftTime       *Number `json:"section_left_time"`
		SectionAdjustSpeed    *Flag   `json:"section_adjust_speed"`
		CamSpeedFactor        *Number `json:"cam_speed_factor"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*r = RoadLimit{
		RoadLimitSpeed:        w.RoadLimitSpeed.Or(0),
		IsHighway:             w.IsHighway.Or(false),
		CamType:               w.CamType.IntOr(0),
		CamLimitSpeed:         w.CamLimitSpeed.Or(0),
		CamLimitSpeedLeftDist: w.CamLimitSpeedLeftDist.Or(0),
		SectionLimitSpeed:     w.SectionLimitSpeed.Or(0),
		SectionLeftDist:       w.SectionLeftDist.Or(0),
		SectionAvgSpeed:       w.SectionAvgSpeed.Or(0),
		SectionLeftTime:       w.SectionLeftTime.Or(0),
		SectionAdjustSpeed:    w.SectionAdjustSpeed.Or(false),
		CamSpeedFactor:        w.CamSpeedFactor.Or(settings.CAMERA_SPEED_FACTOR),
	}
	return nil
}
