package command

import "errors"

// #region capabilities

// Capability names understood by the vehicle link. The core treats
// every capability as an opaque call-by-name.
const (
	CapTakeoff       = "takeoff"
	CapLand          = "land"
	CapGoto          = "goto"
	CapHover         = "hover"
	CapSetSpeed      = "set_speed"
	CapSetHeading    = "set_heading"
	CapRTL           = "rtl"
	CapArm           = "arm"
	CapDisarm        = "disarm"
	CapEmergencyStop = "emergency_stop"
)

// known is the registry of supported command names.
var known = map[string]bool{
	CapTakeoff:       true,
	CapLand:          true,
	CapGoto:          true,
	CapHover:         true,
	CapSetSpeed:      true,
	CapSetHeading:    true,
	CapRTL:           true,
	CapArm:           true,
	CapDisarm:        true,
	CapEmergencyStop: true,
}

// Known reports whether name is a supported command.
func Known(name string) bool {
	return known[name]
}

// Motion reports whether name moves the vehicle. Safety blocks apply
// to motion commands only; land and rtl stay available as correctives.
func Motion(name string) bool {
	switch name {
	case CapTakeoff, CapGoto, CapSetSpeed, CapSetHeading:
		return true
	}
	return false
}

// #endregion capabilities

// #region command

// ErrUnknownCommand marks a command name outside the registry.
// Unknown names are rejected, never downgraded to a no-op.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a single requested action. It is consumed once; only its
// outcome is retained in memory.
type Command struct {
	Name    string
	Params  map[string]float64
	Confirm bool
}

// Param returns the named parameter or fallback when absent.
func (c Command) Param(key string, fallback float64) float64 {
	if v, ok := c.Params[key]; ok {
		return v
	}
	return fallback
}

// #endregion command
