package settings

import (
	"time"
)

const (
	DEFAULT_SEGMENT_SIZE = 10 * 1024 * 1024
	LOOP_DELAY           = 30 * time.Millisecond
	RECEIVE_TIMEOUT      = 500 * time.Millisecond
	ANNOUNCE_PERIOD      = 5 * time.Second
	GPS_PERIOD           = 1 * time.Second
	STALE_AFTER          = 6 * time.Second
	MS_TO_KPH            = 3.6
	KPH_TO_MS            = 1 / 3.6
	MPH_TO_MS            = 0.44704
	MS_TO_MPH            = 1 / MPH_TO_MS
)

const (
	RECEIVE_PORT   = 843
	FALLBACK_PORT  = 2843
	BROADCAST_PORT = 2899
	REPLY_PORT     = 2898
	LOCATION_PORT  = BROADCAST_PORT
	MAX_DATAGRAM   = 2048
)

const (
	ANNOUNCE_TOKEN          = "EON:ROAD_LIMIT_SERVICE:v1"
	ANNOUNCE_RESOLVE_CYCLES = 10
	CAMERA_SPEED_FACTOR     = 0.99
	VALID_HOLD_TICKS        = 10
	GPS_MAX_ACCURACY        = 10.0
)

const (
	ADVISORY_TOPIC = "roadLimitSpeed"
	VEHICLE_TOPIC  = "roadLimitVehicle"
	LOCATION_TOPIC = "roadLimitLocation"
)

