package guard

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// Guard tracks the activity of a single wallet.
type Guard struct {
	Address testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Safe    testament.Address `protobuf:"bytes,2,opt,name=safe,proto3" json:"safe,omitempty"`
	Will    testament.Address `protobuf:"bytes,3,opt,name=will,proto3" json:"will,omitempty"`
	// LastTimestampTxs is the block time, in seconds, of the last
	// transaction executed by the wallet.
	LastTimestampTxs int64 `protobuf:"varint,4,opt,name=last_timestamp_txs,json=lastTimestampTxs,proto3" json:"last_timestamp_txs,omitempty"`
}

func (m *Guard) Reset()         { *m = Guard{} }
func (m *Guard) String() string { return proto.CompactTextString(m) }
func (*Guard) ProtoMessage()    {}
