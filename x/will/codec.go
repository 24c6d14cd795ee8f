package will

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
)

// Kind tells where the funds distributed by a will are held.
type Kind int32

const (
	KindInvalid Kind = 0
	// Custody wills hold the funds at their own address.
	Custody Kind = 1
	// Forwarding wills distribute funds held by a multisig wallet.
	Forwarding Kind = 2
)

// Status is the lifecycle state of a will.
type Status int32

const (
	StatusInvalid Status = 0
	Active        Status = 1
	Deleted       Status = 2
	Triggered     Status = 3
)

// Will is the distribution instance of a single owner.
type Will struct {
	WillID  uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Kind    Kind              `protobuf:"varint,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Owner   testament.Address `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
	Address testament.Address `protobuf:"bytes,4,opt,name=address,proto3" json:"address,omitempty"`
	Router  testament.Address `protobuf:"bytes,5,opt,name=router,proto3" json:"router,omitempty"`

	// Safe and Guard are set for forwarding wills only.
	Safe  testament.Address `protobuf:"bytes,6,opt,name=safe,proto3" json:"safe,omitempty"`
	Guard testament.Address `protobuf:"bytes,7,opt,name=guard,proto3" json:"guard,omitempty"`

	Status        Status               `protobuf:"varint,8,opt,name=status,proto3" json:"status,omitempty"`
	Initialized   bool                 `protobuf:"varint,9,opt,name=initialized,proto3" json:"initialized,omitempty"`
	Name          string               `protobuf:"bytes,10,opt,name=name,proto3" json:"name,omitempty"`
	Note          string               `protobuf:"bytes,11,opt,name=note,proto3" json:"note,omitempty"`
	Nicknames     []string             `protobuf:"bytes,12,rep,name=nicknames,proto3" json:"nicknames,omitempty"`
	Beneficiaries []testament.Address  `protobuf:"bytes,13,rep,name=beneficiaries,proto3" json:"beneficiaries,omitempty"`
	Assets        []testament.Address  `protobuf:"bytes,14,rep,name=assets,proto3" json:"assets,omitempty"`
	Entries       []*DistributionEntry `protobuf:"bytes,15,rep,name=entries,proto3" json:"entries,omitempty"`

	MinRequiredSignatures uint32 `protobuf:"varint,16,opt,name=min_required_signatures,json=minRequiredSignatures,proto3" json:"min_required_signatures,omitempty"`
	// LackOfOutgoingTxRange is the dormancy window in seconds.
	LackOfOutgoingTxRange int64 `protobuf:"varint,17,opt,name=lack_of_outgoing_tx_range,json=lackOfOutgoingTxRange,proto3" json:"lack_of_outgoing_tx_range,omitempty"`
	// Signers are the beneficiaries with a recorded valid attestation.
	Signers []testament.Address `protobuf:"bytes,18,rep,name=signers,proto3" json:"signers,omitempty"`
	// LastActivity is the time of the last owner action, used as the
	// dormancy reference of custody wills.
	LastActivity int64 `protobuf:"varint,19,opt,name=last_activity,json=lastActivity,proto3" json:"last_activity,omitempty"`
	CreatedAt    int64 `protobuf:"varint,20,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *Will) Reset()         { *m = Will{} }
func (m *Will) String() string { return proto.CompactTextString(m) }
func (*Will) ProtoMessage()    {}

// DistributionEntry is the percent of an asset a beneficiary receives.
type DistributionEntry struct {
	Asset       testament.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Beneficiary testament.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Percent     uint32            `protobuf:"varint,3,opt,name=percent,proto3" json:"percent,omitempty"`
}

func (m *DistributionEntry) Reset()         { *m = DistributionEntry{} }
func (m *DistributionEntry) String() string { return proto.CompactTextString(m) }
func (*DistributionEntry) ProtoMessage()    {}

// Distribution is a configuration row: the percent of each listed asset
// the user receives.
type Distribution struct {
	User     testament.Address   `protobuf:"bytes,1,opt,name=user,proto3" json:"user,omitempty"`
	Assets   []testament.Address `protobuf:"bytes,2,rep,name=assets,proto3" json:"assets,omitempty"`
	Percents []uint32            `protobuf:"varint,3,rep,packed,name=percents,proto3" json:"percents,omitempty"`
}

func (m *Distribution) Reset()         { *m = Distribution{} }
func (m *Distribution) String() string { return proto.CompactTextString(m) }
func (*Distribution) ProtoMessage()    {}

// MainConfig is the descriptive part and the distribution plan of a will.
type MainConfig struct {
	Name          string          `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Note          string          `protobuf:"bytes,2,opt,name=note,proto3" json:"note,omitempty"`
	Nicknames     []string        `protobuf:"bytes,3,rep,name=nicknames,proto3" json:"nicknames,omitempty"`
	Distributions []*Distribution `protobuf:"bytes,4,rep,name=distributions,proto3" json:"distributions,omitempty"`
}

func (m *MainConfig) Reset()         { *m = MainConfig{} }
func (m *MainConfig) String() string { return proto.CompactTextString(m) }
func (*MainConfig) ProtoMessage()    {}

// ExtraConfig holds the activation conditions.
type ExtraConfig struct {
	MinRequiredSignatures uint32 `protobuf:"varint,1,opt,name=min_required_signatures,json=minRequiredSignatures,proto3" json:"min_required_signatures,omitempty"`
	LackOfOutgoingTxRange int64  `protobuf:"varint,2,opt,name=lack_of_outgoing_tx_range,json=lackOfOutgoingTxRange,proto3" json:"lack_of_outgoing_tx_range,omitempty"`
}

func (m *ExtraConfig) Reset()         { *m = ExtraConfig{} }
func (m *ExtraConfig) String() string { return proto.CompactTextString(m) }
func (*ExtraConfig) ProtoMessage()    {}

func (m *ExtraConfig) GetMinRequiredSignatures() uint32 {
	if m != nil {
		return m.MinRequiredSignatures
	}
	return 0
}

func (m *ExtraConfig) GetLackOfOutgoingTxRange() int64 {
	if m != nil {
		return m.LackOfOutgoingTxRange
	}
	return 0
}
