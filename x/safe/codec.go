package safe

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// Operation is the kind of call a wallet performs.
type Operation int32

const (
	Call         Operation = 0
	DelegateCall Operation = 1
)

// Safe is a multisignature wallet.
type Safe struct {
	Address   testament.Address   `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Owners    []testament.Address `protobuf:"bytes,2,rep,name=owners,proto3" json:"owners,omitempty"`
	Threshold uint32              `protobuf:"varint,3,opt,name=threshold,proto3" json:"threshold,omitempty"`
	Guard     testament.Address   `protobuf:"bytes,4,opt,name=guard,proto3" json:"guard,omitempty"`
	Modules   []testament.Address `protobuf:"bytes,5,rep,name=modules,proto3" json:"modules,omitempty"`
	// Nonce counts executed transactions.
	Nonce int64 `protobuf:"varint,6,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (m *Safe) Reset()         { *m = Safe{} }
func (m *Safe) String() string { return proto.CompactTextString(m) }
func (*Safe) ProtoMessage()    {}

// ExecInfo is the transaction header requesting to act as a wallet.
type ExecInfo struct {
	Wallet    testament.Address `protobuf:"bytes,1,opt,name=wallet,proto3" json:"wallet,omitempty"`
	Operation Operation         `protobuf:"varint,2,opt,name=operation,proto3" json:"operation,omitempty"`
}

func (m *ExecInfo) Reset()         { *m = ExecInfo{} }
func (m *ExecInfo) String() string { return proto.CompactTextString(m) }
func (*ExecInfo) ProtoMessage()    {}

func (m *ExecInfo) GetWallet() testament.Address {
	if m != nil {
		return m.Wallet
	}
	return nil
}

// CreateSafeMsg creates a new wallet.
type CreateSafeMsg struct {
	Owners    []testament.Address `protobuf:"bytes,1,rep,name=owners,proto3" json:"owners,omitempty"`
	Threshold uint32              `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold,omitempty"`
}

func (m *CreateSafeMsg) Reset()         { *m = CreateSafeMsg{} }
func (m *CreateSafeMsg) String() string { return proto.CompactTextString(m) }
func (*CreateSafeMsg) ProtoMessage()    {}

// SetGuardMsg replaces the wallet guard. An empty guard removes it.
type SetGuardMsg struct {
	Wallet testament.Address `protobuf:"bytes,1,opt,name=wallet,proto3" json:"wallet,omitempty"`
	Guard  testament.Address `protobuf:"bytes,2,opt,name=guard,proto3" json:"guard,omitempty"`
}

func (m *SetGuardMsg) Reset()         { *m = SetGuardMsg{} }
func (m *SetGuardMsg) String() string { return proto.CompactTextString(m) }
func (*SetGuardMsg) ProtoMessage()    {}

// EnableModuleMsg enables a module on the wallet.
type EnableModuleMsg struct {
	Wallet testament.Address `protobuf:"bytes,1,opt,name=wallet,proto3" json:"wallet,omitempty"`
	Module testament.Address `protobuf:"bytes,2,opt,name=module,proto3" json:"module,omitempty"`
}

func (m *EnableModuleMsg) Reset()         { *m = EnableModuleMsg{} }
func (m *EnableModuleMsg) String() string { return proto.CompactTextString(m) }
func (*EnableModuleMsg) ProtoMessage()    {}

// DisableModuleMsg disables a module of the wallet.
type DisableModuleMsg struct {
	Wallet testament.Address `protobuf:"bytes,1,opt,name=wallet,proto3" json:"wallet,omitempty"`
	Module testament.Address `protobuf:"bytes,2,opt,name=module,proto3" json:"module,omitempty"`
}

func (m *DisableModuleMsg) Reset()         { *m = DisableModuleMsg{} }
func (m *DisableModuleMsg) String() string { return proto.CompactTextString(m) }
func (*DisableModuleMsg) ProtoMessage()    {}
