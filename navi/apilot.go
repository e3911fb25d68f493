package navi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Apilot is one sample of the apilot stream: a type/value pair plus the
// numeric SDI fields some navigation apps send alongside it.
type Apilot struct {
	Type        string
	Value       string
	SDI         SDI
	PosRoadName string
}

// SDI is the structured safety-info sub-protocol. -1 means not reported,
// except TBTDist which uses 0.
type SDI struct {
	TBTTurnType       int
	TBTDist           int
	RoadLimitSpeed    int
	SdiType           int
	SdiDist           int
	SdiSpeedLimit     int
	SdiPlusType       int
	SdiPlusDist       int
	SdiPlusSpeedLimit int
}

func EmptySDI() SDI {
	return SDI{
		TBTTurnType:       -1,
		TBTDist:           0,
		RoadLimitSpeed:    -1,
		SdiType:           -1,
		SdiDist:           -1,
		SdiSpeedLimit:     -1,
		SdiPlusType:       -1,
		SdiPlusDist:       -1,
		SdiPlusSpeedLimit: -1,
	}
}

type apilotWire struct {
	Type              *Text   `json:"type,omitempty"`
	Value             *Text   `json:"value,omitempty"`
	TBTTurnType       *Number `json:"nTBTTurnType,omitempty"`
	TBTDist           *Number `json:"nTBTDist,omitempty"`
	RoadLimitSpeed    *Number `json:"nRoadLimitSpeed,omitempty"`
	SdiType           *Number `json:"nSdiType,omitempty"`
	SdiDist           *Number `json:"nSdiDist,omitempty"`
	SdiSpeedLimit     *Number `json:"nSdiSpeedLimit,omitempty"`
	SdiPlusType       *Number `json:"nSdiPlusType,omitempty"`
	SdiPlusDist       *Number `json:"nSdiPlusDist,omitempty"`
	SdiPlusSpeedLimit *Number `json:"nSdiPlusSpeedLimit,omitempty"`
	PosRoadName       *Text   `json:"szPosRoadName,omitempty"`
}

func (a *Apilot) UnmarshalJSON(b []byte) error {
	var w apilotWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	empty := EmptySDI()
	*a = Apilot{
		Type:  w.Type.Or(""),
		Value: w.Value.Or("-1"),
		SDI: SDI{
			TBTTurnType:       w.TBTTurnType.IntOr(empty.TBTTurnType),
			TBTDist:           w.TBTDist.IntOr(empty.TBTDist),
			RoadLimitSpeed:    w.RoadLimitSpeed.IntOr(empty.RoadLimitSpeed),
			SdiType:           w.SdiType.IntOr(empty.SdiType),
			SdiDist:           w.SdiDist.IntOr(empty.SdiDist),
			SdiSpeedLimit:     w.SdiSpeedLimit.IntOr(empty.SdiSpeedLimit),
			SdiPlusType:       w.SdiPlusType.IntOr(empty.SdiPlusType),
			SdiPlusDist:       w.SdiPlusDist.IntOr(empty.SdiPlusDist),
			SdiPlusSpeedLimit: w.SdiPlusSpeedLimit.IntOr(empty.SdiPlusSpeedLimit),
		},
		PosRoadName: w.PosRoadName.Or(""),
	}
	return nil
}

func (a Apilot) MarshalJSON() ([]byte, error) {
	text := func(s string) *Text { t := Text(s); return &t }
	num := func(i int) *Number { n := Number(i); return &n }

	w := apilotWire{
		Value:             text(a.Value),
		TBTTurnType:       num(a.SDI.TBTTurnType),
		TBTDist:           num(a.SDI.TBTDist),
		RoadLimitSpeed:    num(a.SDI.RoadLimitSpeed),
		SdiType:           num(a.SDI.SdiType),
		SdiDist:           num(a.SDI.SdiDist),
		SdiSpeedLimit:     num(a.SDI.SdiSpeedLimit),
		SdiPlusType:       num(a.SDI.SdiPlusType),
		SdiPlusDist:       num(a.SDI.SdiPlusDist),
		SdiPlusSpeedLimit: num(a.SDI.SdiPlusSpeedLimit),
	}
	if a.Type != "" {
		w.Type = text(a.Type)
	}
	if a.PosRoadName != "" {
		w.PosRoadName = text(a.PosRoadName)
	}
	return json.Marshal(w)
}

// ValueInt is the value as an integer, -100 when it is not one.
func (a Apilot) ValueInt() int {
	v, err := strconv.Atoi(strings.TrimSpace(a.Value))
	if err != nil {
		return -100
	}
	return v
}

// Advisory is the decoded apilot type/value pair.
type Advisory interface {
	Kind() string
}

type (
	NoAdvisory     struct{}
	TurnInfo       struct{ Turn int }
	DistanceToTurn struct{ Distance int }
	SpeedDistance  struct{ Distance int }
	SpeedLimit     struct{ Limit int }
	SignType       struct{ Sign int }
	RoadSignType   struct{ Sign int }
	RoadLimitSpeed struct{ Limit int }
	RoadName       struct{ Name string }
	// NavSign is a waze navigation sign already mapped to a turn code.
	NavSign     struct{ Turn int }
	NavDistance struct{ Distance int }
	// ManualActive marks the apilot stream as manually engaged.
	ManualActive struct{}
	Ignored      struct{ Type string }
	Unknown      struct{ Type, Value string }
)

func (NoAdvisory) Kind() string     { return "none" }
func (TurnInfo) Kind() string       { return "opkrturninfo" }
func (DistanceToTurn) Kind() string { return "opkrdistancetoturn" }
func (SpeedDistance) Kind() string  { return "opkrspddist" }
func (SpeedLimit) Kind() string     { return "opkrspdlimit" }
func (SignType) Kind() string       { return "opkrsigntype" }
func (RoadSignType) Kind() string   { return "opkrroadsigntype" }
func (RoadLimitSpeed) Kind() string { return "opkrroadlimitspeed" }
func (RoadName) Kind() string       { return "opkrwazeroadname" }
func (NavSign) Kind() string        { return "opkrwazenavsign" }
func (NavDistance) Kind() string    { return "opkrwazenavdist" }
func (ManualActive) Kind() string   { return "apilotman" }
func (a Ignored) Kind() string      { return a.Type }
func (a Unknown) Kind() string      { return a.Type }

// waze sign ids
var navSigns = map[string]int{
	"2131230983": -1, // destination
	"2131230988": 1,  // turn left
	"2131230989": 2,  // turn right
	"2131230985": 4,
}

// Advisory decodes the type/value pair.
func (a Apilot) Advisory() Advisory {
	v := a.ValueInt()
	switch a.Type {
	case "", "none":
		return NoAdvisory{}
	case "opkrturninfo":
		return TurnInfo{Turn: v}
	case "opkrdistancetoturn":
		return DistanceToTurn{Distance: v}
	case "opkrspddist":
		return SpeedDistance{Distance: v}
	case "opkrspdlimit":
		return SpeedLimit{Limit: v}
	case "opkrsigntype":
		return SignType{Sign: v}
	case "opkrroadsigntype":
		return RoadSignType{Sign: v}
	case "opkrroadlimitspeed", "opkrwazeroadspdlimit":
		return RoadLimitSpeed{Limit: v}
	case "opkrwazeroadname":
		return RoadName{Name: a.Value}
	case "opkrwazenavsign":
		if turn, ok := navSigns[a.Value]; ok {
			return NavSign{Turn: turn}
		}
		return NavSign{Turn: v}
	case "opkrwazenavdist":
		return NavDistance{Distance: v}
	case "apilotman":
		return ManualActive{}
	case "opkr-spddist", "opkr-spdlimit", "opkr-signtype", "opkrwazecurrentspd", "opkrwazealertdist", "opkrwazereportid":
		return Ignored{Type: a.Type}
	}
	return Unknown{Type: a.Type, Value: a.Value}
}
