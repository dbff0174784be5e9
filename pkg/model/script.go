package model

import "github.com/edgemesh/ruleengine/pkg/resource"

// ScriptType names the runtime an executor must load to run a script.
type ScriptType int

const (
	ScriptTypeWASM ScriptType = iota
	ScriptTypeJS
	ScriptTypeNative
	ScriptTypeStandalone
)

func (t ScriptType) String() string {
	switch t {
	case ScriptTypeWASM:
		return "wasm"
	case ScriptTypeJS:
		return "js"
	case ScriptTypeNative:
		return "native"
	case ScriptTypeStandalone:
		return "standalone"
	default:
		return "unknown"
	}
}

// QoS is the delivery guarantee requested for a device-desired-state write.
type QoS int

const (
	QoSOnlyOnce QoS = iota
	QoSAtMostOnce
	QoSAtLeastOnce
)

func (q QoS) String() string {
	switch q {
	case QoSOnlyOnce:
		return "OnlyOnce"
	case QoSAtMostOnce:
		return "AtMostOnce"
	case QoSAtLeastOnce:
		return "AtLeastOnce"
	default:
		return "unknown"
	}
}

// Manifest describes where and how an executor loads a script's code.
type Manifest struct {
	ScriptType ScriptType
	Name       string
	Version    string
	Register   *string // code-distribution endpoint override
}

// SelectorKind distinguishes a name-based selector entry from an
// ability-based one.
type SelectorKind int

const (
	SelectorMatchNames SelectorKind = iota
	SelectorMatchAbilities
)

// Selectors is a script's read or write selector: its local_alias →
// resource_name and local_alias → ability_name bindings. Kind is carried by
// which map an entry is in, and direction by which Script field (ReadSelector
// or WriteSelector) holds it, rather than per entry.
type Selectors struct {
	MatchNames     map[string]string // local_alias -> device resource name
	MatchAbilities map[string]string // local_alias -> ability name
}

// ExecutePolicy controls when and how a script is triggered and with what
// delivery guarantee its device writes are applied.
type ExecutePolicy struct {
	ReadChange bool
	Webhook    bool
	Cron       string
	QoS        QoS
}

// ScriptStatus is the last recorded run outcome of a script.
type ScriptStatus struct {
	LastRunMillis int64
	ElapsedMicros int64
	StatusCode    int32
	Message       string
}

// Script mirrors one row of the scripts table plus its selectors, env, and
// execute policy.
type Script struct {
	Namespace      string
	Name           string
	ReadSelector   Selectors
	WriteSelector  Selectors
	Env            map[string]string
	Manifest       Manifest
	ExecutePolicy  ExecutePolicy
	Status         *ScriptStatus
}

// Index returns the ScriptIndex that keys this script in the Reflector.
func (s Script) Index() ScriptIndex {
	return resource.New[resource.Script](s.Namespace, s.Name)
}
