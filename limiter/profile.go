package limiter

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	m "pfeifer.dev/roadlimit/math"
	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
)

var ErrInvalidInput = errors.New("invalid limiter input")

const (
	SIGN_SESSION           = 165
	CAM_BUMP               = 22
	CAM_SECTION_START      = 2
	SESSION_MIN_DIST       = 50
	SESSION_MAX_DIST       = 3000
	SECTION_CLEAR_DIST     = 10
	BUMP_START_FACTOR      = 6
	MIN_CAM_SPEED_FACTOR   = 0.98
	MAX_CAM_SPEED_FACTOR   = 1.0
	PROFILE_SHAPE_EXPONENT = 0.6
)

// Thresholds tune when a slowdown starts and ends. The start and end
// factors are seconds of travel at the current speed; BumpDist is metres.
type Thresholds struct {
	StartFactor  float64
	EndFactor    float64
	BumpDist     float64
	MinLimit     float64
	MaxLimit     float64
	MinBumpLimit float64
}

func DefaultThresholds() Thresholds {
	s := settings.Settings{}
	s.Default()
	return ThresholdsFromSettings(s)
}

func ThresholdsFromSettings(s settings.Settings) Thresholds {
	return Thresholds{
		StartFactor:  s.AutoNaviSpeedCtrlStart,
		EndFactor:    s.AutoNaviSpeedCtrlEnd,
		BumpDist:     s.AutoNaviSpeedBumpDist,
		MinLimit:     s.MinLimitSpeed,
		MaxLimit:     s.MaxLimitSpeed,
		MinBumpLimit: s.MinBumpLimitSpeed,
	}
}

// Result is a target speed in cluster units. Speed is 0 when no slowdown
// applies. JustStarted is true only on the call that began a slowdown.
type Result struct {
	Speed       float64
	Limit       float64
	Distance    float64
	JustStarted bool
	Log         string
}

// Profile is the slowdown state carried between calls.
type Profile struct {
	slowing      bool
	startedDist  float64
	sessionLimit bool
}

func (p *Profile) Slowing() bool {
	return p.slowing
}

func (p *Profile) Reset() {
	*p = Profile{}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Calculate computes the target speed for the advisory. Camera points take
// precedence over section enforcement.
func (p *Profile) Calculate(adv navi.Published, clusterSpeed float64, isMetric bool, th Thresholds) (Result, error) {
	if !finite(clusterSpeed, adv.CamLimitSpeed, adv.CamLimitSpeedLeftDist, adv.SectionLimitSpeed,
		adv.SectionLeftDist, adv.SectionAvgSpeed, adv.CamSpeedFactor,
		th.StartFactor, th.EndFactor, th.BumpDist) {
		p.slowing = false
		return Result{}, errors.Wrap(ErrInvalidInput, "non-finite value")
	}

	camType := adv.CamType
	camDist := adv.CamLimitSpeedLeftDist
	camLimit := adv.CamLimitSpeed
	if adv.XSpdLimit > 0 && adv.XSpdDist > 0 {
		camDist = float64(adv.XSpdDist)
		camLimit = float64(adv.XSpdLimit)
		p.sessionLimit = adv.XSignType == SIGN_SESSION || camDist > SESSION_MAX_DIST
		if camDist < SESSION_MIN_DIST {
			p.sessionLimit = false
		}
	}

	factor := m.Clamp(adv.CamSpeedFactor, MIN_CAM_SPEED_FACTOR, MAX_CAM_SPEED_FACTOR)
	minLimit := th.MinLimit
	if camType == CAM_BUMP {
		minLimit = th.MinBumpLimit
	}
	inBand := func(limit float64) bool {
		return minLimit <= limit && limit <= th.MaxLimit
	}

	if camDist > 0 {
		toMs := settings.MPH_TO_MS
		if isMetric {
			toMs = settings.KPH_TO_MS
		}
		vEgo := clusterSpeed * toMs
		diff := clusterSpeed - camLimit*factor

		startDist := vEgo * th.StartFactor
		safeDist := vEgo * th.EndFactor
		if camType == CAM_BUMP {
			startDist = vEgo * BUMP_START_FACTOR
			safeDist = th.BumpDist
		}

		log := fmt.Sprintf("SPDCTRL(%t)=%.0f<%.0f<%.0f,type=%d,%.0f", p.slowing, safeDist, camDist, startDist, camType, p.startedDist)

		if inBand(camLimit) && (p.slowing || camDist < startDist) {
			first := false
			if !p.slowing {
				p.startedDist = camDist
				p.slowing = true
				first = true
			}

			td := p.startedDist - safeDist
			d := camDist - safeDist

			pp := 0.0
			sectionClear := adv.SectionLeftDist < SECTION_CLEAR_DIST || camType == CAM_SECTION_START
			if d > 0 && td > 0 && diff > 0 && sectionClear && !p.sessionLimit {
				pp = math.Pow(d/td, PROFILE_SHAPE_EXPONENT)
			}

			return Result{
				Speed:       camLimit*factor + math.Round(pp*diff),
				Limit:       camLimit,
				Distance:    camDist,
				JustStarted: first,
				Log:         log,
			}, nil
		}

		p.slowing = false
		return Result{Limit: camLimit, Distance: camDist, Log: log}, nil
	}

	if adv.SectionLeftDist > 0 {
		limit := adv.SectionLimitSpeed
		if inBand(limit) {
			first := !p.slowing
			p.slowing = true

			adjust := 0.0
			if adv.SectionAdjustSpeed {
				adjust = (limit - adv.SectionAvgSpeed) / 2
			}
			return Result{
				Speed:       limit*factor + adjust,
				Limit:       limit,
				Distance:    adv.SectionLeftDist,
				JustStarted: first,
			}, nil
		}

		p.slowing = false
		return Result{Limit: limit, Distance: adv.SectionLeftDist}, nil
	}

	p.slowing = false
	return Result{}, nil
}
