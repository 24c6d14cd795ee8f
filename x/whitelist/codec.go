package whitelist

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// Configuration of the whitelist extension.
type Configuration struct {
	// Owner is allowed to change the whitelist and this configuration.
	Owner testament.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Asset is an entry of the whitelist.
type Asset struct {
	Address testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *Asset) Reset()         { *m = Asset{} }
func (m *Asset) String() string { return proto.CompactTextString(m) }
func (*Asset) ProtoMessage()    {}

// UpdateMsg adds assets to or removes them from the whitelist.
type UpdateMsg struct {
	Assets  []testament.Address `protobuf:"bytes,1,rep,name=assets,proto3" json:"assets,omitempty"`
	Allowed bool                `protobuf:"varint,2,opt,name=allowed,proto3" json:"allowed,omitempty"`
}

func (m *UpdateMsg) Reset()         { *m = UpdateMsg{} }
func (m *UpdateMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateMsg) ProtoMessage()    {}

// UpdateConfigurationMsg patches the configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

// WhitelistUpdatedEvent is emitted for every delivered update.
type WhitelistUpdatedEvent struct {
	Assets  []testament.Address `protobuf:"bytes,1,rep,name=assets,proto3" json:"assets,omitempty"`
	Allowed bool                `protobuf:"varint,2,opt,name=allowed,proto3" json:"allowed,omitempty"`
}

func (m *WhitelistUpdatedEvent) Reset()         { *m = WhitelistUpdatedEvent{} }
func (m *WhitelistUpdatedEvent) String() string { return proto.CompactTextString(m) }
func (*WhitelistUpdatedEvent) ProtoMessage()    {}
