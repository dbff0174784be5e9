package executorsvc

import (
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/proto"
)

func toProtoRunCommand(r model.RunCommand) *proto.RunCommand {
	out := &proto.RunCommand{
		ScriptId: r.ScriptID,
		Manifest: &proto.Manifest{
			ScriptType: int32(r.Manifest.ScriptType),
			Name:       r.Manifest.Name,
			Version:    r.Manifest.Version,
		},
		Readable:   make(map[string]*proto.ReadDevice, len(r.Readable)),
		Writable:   make(map[string]*proto.WriteDevice, len(r.Writable)),
		Env:        r.Env,
		DefaultQos: int32(r.DefaultQoS),
	}
	if r.Manifest.Register != nil {
		out.Manifest.Register = *r.Manifest.Register
	}
	for alias, d := range r.Readable {
		out.Readable[alias] = &proto.ReadDevice{Name: d.Name, Status: d.Status}
	}
	for alias, d := range r.Writable {
		out.Writable[alias] = &proto.WriteDevice{Name: d.Name}
	}
	return out
}
