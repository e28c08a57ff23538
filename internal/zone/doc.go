// Package zone generates EnergyPlus thermal zones from room-level
// parameters: a Zone record, its six bounding surfaces with correct
// vertex winding, centered windows, a dual-setpoint thermostat, internal
// loads and the room-type specific operating schedules.
//
// Room types and their defaults follow the Austrian single-family-house
// library conventions (AT_ naming, German surface names). All geometry is
// axis-aligned: a zone is a box of width x depth x height metres placed at
// an x/y/z origin, with the south wall on the y=origin side.
package zone
