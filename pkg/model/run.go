package model

// ReadableDevice is one entry of a RunCommand's readable mapping: a device's
// name plus the reported value of every one of its twins that has one.
type ReadableDevice struct {
	Name   string
	Status map[string]string // property name -> reported value
}

// WritableDevice is one entry of a RunCommand's writable mapping. Only the
// name is needed; the script writes desired state through the executor
// callback, not through the run command itself.
type WritableDevice struct {
	Name string
}

// RunCommand is the fully-resolved envelope the Scheduler hands to the
// Session Manager for dispatch to an executor. It is assembled fresh per
// trigger and never persisted.
type RunCommand struct {
	ScriptID uint32
	Manifest Manifest
	Readable map[string]ReadableDevice // local_alias -> device
	Writable map[string]WritableDevice // local_alias -> device
	Env      map[string]string
	DefaultQoS QoS
}

// RunEnvelope pairs a RunCommand with the script identity the Session
// Manager needs to track sessions and persist status, without requiring
// callers to re-resolve the script after the fact.
type RunEnvelope struct {
	Run            RunCommand
	ScriptNamespace string
	ScriptName      string
}
