package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// UserData is the persistent per-signer state: the sequence of the next
// transaction this signer is allowed to sign.
type UserData struct {
	Address  testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

// StdSignature represents the signature, the identity of the signer is
// recovered from the signature itself, and the sequence number to prevent
// replay attacks.
type StdSignature struct {
	Sequence  int64  `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Signature []byte `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString(m) }
func (*StdSignature) ProtoMessage()    {}

func (m *StdSignature) GetSequence() int64 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

func (m *StdSignature) GetSignature() []byte {
	if m != nil {
		return m.Signature
	}
	return nil
}
