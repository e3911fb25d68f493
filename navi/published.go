package navi

// Published is the fused advisory sent on the bus every publish tick.
type Published struct {
	Active                int
	RoadLimitSpeed        float64
	IsHighway             bool
	CamType               int
	CamLimitSpeedLeftDist float64
	CamLimitSpeed         float64
	SectionLimitSpeed     float64
	SectionLeftDist       float64
	SectionAvgSpeed       float64
	SectionLeftTime       float64
	SectionAdjustSpeed    bool
	CamSpeedFactor        float64
	XTurnInfo             int
	XDistToTurn           int
	XSpdDist              int
	XSpdLimit             int
	XSignType             int
	XRoadSignType         int
	XRoadLimitSpeed       int
	XRoadName             string
}
