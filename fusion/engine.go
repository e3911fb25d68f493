package fusion

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/settings"
	"pfeifer.dev/roadlimit/store"
)

const (
	SIGN_BUMP      = 124
	CAM_BUMP       = 22
	BUMP_DISTANCE  = 110
	BUMP_LIMIT     = 10
	SDI_BUMP_LIMIT = 35
	INACTIVE       = -1
)

var (
	sdiCameraTypes = []int{0, 1, 2, 3, 8}
	tbtLeft        = []int{12, 16}
	tbtRight       = []int{13, 19}
	tbtKeepLeft    = []int{7, 44, 17, 75, 102, 105, 112, 115, 76, 118}
	tbtKeepRight   = []int{6, 43, 73, 74, 101, 104, 111, 114, 123, 124, 117}
)

// Input is the vehicle state sampled for one tick.
type Input struct {
	DistanceDelta float64
	GasPressed    bool
}

// Output is the result of one tick. ManualActive is set when the apilot
// stream reported a manual engagement in a sample first seen this tick.
type Output struct {
	Published    navi.Published
	ManualActive bool
}

// validity holds a stream usable for a fixed number of ticks after the last
// tick that refreshed it.
type validity struct {
	count int
}

func (v *validity) tick(refreshed bool) bool {
	if refreshed {
		v.count = settings.VALID_HOLD_TICKS
		return true
	}
	live := v.count > 0
	if v.count > 0 {
		v.count--
	}
	return live
}

// Engine carries the fused advisory between ticks. It is not safe for
// concurrent use; the daemon's publish loop owns it.
type Engine struct {
	turnInfo     int
	turnInfoPrev int
	distToTurn   float64
	spdDist      float64
	spdLimit     int
	signType     int
	roadSignType int
	roadLimit    int
	roadName     string
	sdiType      int
	bumpDistance float64
	debugText    string

	sdi validity
	apn validity

	lastApilot time.Time
}

func NewEngine() *Engine {
	return &Engine{
		turnInfo:     INACTIVE,
		turnInfoPrev: INACTIVE,
		distToTurn:   INACTIVE,
		spdDist:      INACTIVE,
		spdLimit:     INACTIVE,
		signType:     INACTIVE,
		roadSignType: INACTIVE,
		roadLimit:    INACTIVE,
		sdiType:      INACTIVE,
		bumpDistance: INACTIVE,
	}
}

// Tick fuses the current store record and vehicle input into one published
// advisory. Values from an apilot sample are applied once, on the first tick
// that sees it, and distances count down with the vehicle afterwards.
func (e *Engine) Tick(rec store.Record, in Input) Output {
	out := Output{}
	delta := in.DistanceDelta
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		delta = 0
	}

	roadLimit := navi.DefaultRoadLimit()
	if rec.RoadLimit != nil {
		roadLimit = *rec.RoadLimit
	}
	camType := roadLimit.CamType

	apnValid := rec.RoadLimit != nil
	sdiValid := false
	if rec.Apilot != nil {
		fresh := !rec.ApilotUpdated.Equal(e.lastApilot)
		e.lastApilot = rec.ApilotUpdated

		adv := rec.Apilot.Advisory()
		if _, none := adv.(navi.NoAdvisory); !none {
			apnValid = true
		}
		sdiValid = rec.Apilot.SDI.RoadLimitSpeed >= 0

		if fresh {
			if _, ok := adv.(navi.ManualActive); ok {
				out.ManualActive = true
			}
			e.applyAdvisory(adv)
			e.applySDI(rec.Apilot.SDI)
			if rec.Apilot.PosRoadName != "" {
				e.roadName = rec.Apilot.PosRoadName
			}
			if sdiValid {
				sdi := rec.Apilot.SDI
				e.debugText = fmt.Sprintf("(%d/%d/%d %d/%d/%d)",
					sdi.SdiType, sdi.SdiDist, sdi.SdiSpeedLimit,
					sdi.SdiPlusType, sdi.SdiPlusDist, sdi.SdiPlusSpeedLimit)
			}
		}
	}

	if in.GasPressed {
		e.bumpDistance = INACTIVE
		if e.signType == SIGN_BUMP {
			e.signType = INACTIVE
		}
	}

	sdiLive := e.sdi.tick(sdiValid)
	apnLive := e.apn.tick(apnValid)

	e.countDown(delta)

	active := rec.Active
	if sdiLive {
		active = 200 + rec.Active
	} else if apnLive {
		active = 100 + rec.Active
	} else {
		e.spdDist = INACTIVE
		e.spdLimit = INACTIVE
		e.bumpDistance = INACTIVE
		e.sdiType = INACTIVE
	}
	if !sdiLive {
		e.debugText = ""
	}

	if e.sdiType >= 0 {
		camType = e.sdiType
	}

	pub := navi.Published{
		Active:                active,
		RoadLimitSpeed:        roadLimit.RoadLimitSpeed,
		IsHighway:             roadLimit.IsHighway,
		CamType:               camType,
		CamLimitSpeedLeftDist: roadLimit.CamLimitSpeedLeftDist,
		CamLimitSpeed:         roadLimit.CamLimitSpeed,
		SectionLimitSpeed:     roadLimit.SectionLimitSpeed,
		SectionLeftDist:       roadLimit.SectionLeftDist,
		SectionAvgSpeed:       roadLimit.SectionAvgSpeed,
		SectionLeftTime:       roadLimit.SectionLeftTime,
		SectionAdjustSpeed:    roadLimit.SectionAdjustSpeed,
		CamSpeedFactor:        roadLimit.CamSpeedFactor,
		XTurnInfo:             e.turnInfo,
		XDistToTurn:           int(e.distToTurn),
		XSpdDist:              int(e.spdDist),
		XSpdLimit:             e.spdLimit,
		XSignType:             e.signType,
		XRoadSignType:         e.roadSignType,
		XRoadLimitSpeed:       e.roadLimit,
		XRoadName:             e.roadName + e.debugText,
	}
	if e.bumpDistance > 0 {
		pub.CamType = CAM_BUMP
		pub.XSpdDist = int(e.bumpDistance)
		pub.XSpdLimit = BUMP_LIMIT
		pub.XSignType = CAM_BUMP
	}
	out.Published = pub

	slog.Debug("fused advisory",
		"active", pub.Active,
		"camType", pub.CamType,
		"spdLimit", pub.XSpdLimit,
		"spdDist", pub.XSpdDist,
		"turn", pub.XTurnInfo,
		"distToTurn", pub.XDistToTurn,
	)
	return out
}

func (e *Engine) applyAdvisory(adv navi.Advisory) {
	switch a := adv.(type) {
	case navi.TurnInfo:
		e.turnInfo = a.Turn
	case navi.DistanceToTurn:
		e.distToTurn = float64(a.Distance)
	case navi.SpeedDistance:
		e.spdDist = float64(a.Distance)
	case navi.SpeedLimit:
		e.spdLimit = a.Limit
	case navi.SignType:
		e.signType = a.Sign
	case navi.RoadSignType:
		e.roadSignType = a.Sign
	case navi.RoadLimitSpeed:
		e.roadLimit = a.Limit
	case navi.RoadName:
		e.roadName = a.Name
	case navi.NavSign:
		e.turnInfo = a.Turn
		e.turnInfoPrev = a.Turn
	case navi.NavDistance:
		e.distToTurn = float64(a.Distance)
		if e.turnInfo < 0 {
			e.turnInfo = e.turnInfoPrev
		}
	case navi.Unknown:
		slog.Debug("unknown apilot advisory", "type", a.Type, "value", a.Value)
	}
}

func (e *Engine) applySDI(sdi navi.SDI) {
	switch {
	case slices.Contains(tbtLeft, sdi.TBTTurnType):
		e.turnInfo = 1
	case slices.Contains(tbtRight, sdi.TBTTurnType):
		e.turnInfo = 2
	case slices.Contains(tbtKeepLeft, sdi.TBTTurnType):
		e.turnInfo = 3
	case slices.Contains(tbtKeepRight, sdi.TBTTurnType):
		e.turnInfo = 4
	case sdi.TBTTurnType >= 0:
		e.turnInfo = INACTIVE
	}
	if sdi.TBTDist > 0 {
		e.distToTurn = float64(sdi.TBTDist)
	}

	if sdi.RoadLimitSpeed > 0 {
		e.roadLimit = sdi.RoadLimitSpeed
	}

	if slices.Contains(sdiCameraTypes, sdi.SdiType) && sdi.SdiSpeedLimit > 0 {
		e.spdLimit = sdi.SdiSpeedLimit
		e.spdDist = float64(sdi.SdiDist)
		e.sdiType = sdi.SdiType
	} else if sdi.SdiPlusType == CAM_BUMP || sdi.SdiType == CAM_BUMP {
		e.spdLimit = SDI_BUMP_LIMIT
		if sdi.SdiPlusType == CAM_BUMP {
			e.spdDist = float64(sdi.SdiPlusDist)
		} else {
			e.spdDist = float64(sdi.SdiDist)
		}
		e.sdiType = CAM_BUMP
	} else if sdi.TBTTurnType >= 0 && sdi.SdiType <= 0 && sdi.SdiPlusType <= 0 {
		e.spdLimit = INACTIVE
		e.spdDist = INACTIVE
		e.sdiType = INACTIVE
	}
}

// countDown moves the pending distances with the vehicle. A distance that
// reaches zero clears its event. A turn whose distance has not been reported
// yet stays pending until it is.
func (e *Engine) countDown(delta float64) {
	if e.turnInfo >= 0 && e.distToTurn >= 0 {
		e.distToTurn -= delta
		if e.distToTurn <= 0 {
			e.turnInfo = INACTIVE
			e.distToTurn = INACTIVE
		}
	}
	if e.spdLimit >= 0 {
		e.spdDist -= delta
		if e.spdDist <= 0 {
			e.spdLimit = INACTIVE
			e.spdDist = INACTIVE
		}
	}

	if e.bumpDistance > 0 {
		e.bumpDistance -= delta
		if e.bumpDistance <= 0 {
			e.bumpDistance = INACTIVE
			if e.signType == SIGN_BUMP {
				e.signType = INACTIVE
			}
		}
	}
	if e.signType == SIGN_BUMP {
		if e.bumpDistance <= 0 {
			e.bumpDistance = BUMP_DISTANCE
		}
	} else {
		e.bumpDistance = INACTIVE
	}
}
