package bank

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// Balance is the amount of an asset held by an address.
type Balance struct {
	Asset  testament.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Holder testament.Address `protobuf:"bytes,2,opt,name=holder,proto3" json:"holder,omitempty"`
	// Amount is a 32 byte big endian unsigned integer.
	Amount []byte `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Balance) Reset()         { *m = Balance{} }
func (m *Balance) String() string { return proto.CompactTextString(m) }
func (*Balance) ProtoMessage()    {}

// Token is a fungible asset other than the native one.
type Token struct {
	Address testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Symbol  string            `protobuf:"bytes,2,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Minter  testament.Address `protobuf:"bytes,3,opt,name=minter,proto3" json:"minter,omitempty"`
}

func (m *Token) Reset()         { *m = Token{} }
func (m *Token) String() string { return proto.CompactTextString(m) }
func (*Token) ProtoMessage()    {}

// Contract marks an address as owned by an extension rather than a key.
type Contract struct {
	Address testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Kind    string            `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
}

func (m *Contract) Reset()         { *m = Contract{} }
func (m *Contract) String() string { return proto.CompactTextString(m) }
func (*Contract) ProtoMessage()    {}

// SendMsg moves an amount of an asset from the source to the destination.
type SendMsg struct {
	Asset       testament.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Source      testament.Address `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Destination testament.Address `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      []byte            `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string            `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

// CreateTokenMsg registers a new token. The signer becomes its minter.
type CreateTokenMsg struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
}

func (m *CreateTokenMsg) Reset()         { *m = CreateTokenMsg{} }
func (m *CreateTokenMsg) String() string { return proto.CompactTextString(m) }
func (*CreateTokenMsg) ProtoMessage()    {}

// MintMsg credits new tokens to the recipient.
type MintMsg struct {
	Token     testament.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
	Recipient testament.Address `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount    []byte            `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *MintMsg) Reset()         { *m = MintMsg{} }
func (m *MintMsg) String() string { return proto.CompactTextString(m) }
func (*MintMsg) ProtoMessage()    {}

// TransferEvent is emitted for every delivered send.
type TransferEvent struct {
	Asset  testament.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	From   testament.Address `protobuf:"bytes,2,opt,name=from,proto3" json:"from,omitempty"`
	To     testament.Address `protobuf:"bytes,3,opt,name=to,proto3" json:"to,omitempty"`
	Amount []byte            `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *TransferEvent) Reset()         { *m = TransferEvent{} }
func (m *TransferEvent) String() string { return proto.CompactTextString(m) }
func (*TransferEvent) ProtoMessage()    {}
