// Package model holds the plain data types shared across the Reflector,
// Scheduler, Session Manager, and persistence layer: Devices, Scripts, twins,
// selectors, run commands, and the handful of small enums the protocol and
// database schema both refer to.
package model

import "github.com/edgemesh/ruleengine/pkg/resource"

// DeviceIndex is a resource.Index scoped to the device store.
type DeviceIndex = resource.Index[resource.Device]

// ScriptIndex is a resource.Index scoped to the script store.
type ScriptIndex = resource.Index[resource.Script]

// TwinProperty is one side (desired or reported) of a twin's value.
type TwinProperty struct {
	Value    string
	Metadata map[string]string
}

// Twin pairs a property's desired and reported state. Reported is nil until
// the edge has synced a value back.
type Twin struct {
	PropertyName string
	Desired      TwinProperty
	Reported     *TwinProperty
}

// Device mirrors one row of the devices table plus its twins. The core only
// ever reads Devices; they are created and mutated by the watch/change-log
// trigger sources.
type Device struct {
	Namespace   string
	Name        string
	DeviceModel string
	NodeBinding string
	Protocol    *string
	Twins       []Twin
}

// Index returns the DeviceIndex that keys this device in the Reflector.
func (d Device) Index() DeviceIndex {
	return resource.New[resource.Device](d.Namespace, d.Name)
}
