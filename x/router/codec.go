package router

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/x/will"
)

// Configuration is the global will policy.
type Configuration struct {
	// Owner administrates the configuration and the operators.
	Owner testament.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// WillFee is a big endian native amount charged on creation.
	WillFee     []byte            `protobuf:"bytes,2,opt,name=will_fee,json=willFee,proto3" json:"will_fee,omitempty"`
	FeeReceiver testament.Address `protobuf:"bytes,3,opt,name=fee_receiver,json=feeReceiver,proto3" json:"fee_receiver,omitempty"`
	// WillLimit is the maximum number of wills of an owner. Zero means
	// unlimited.
	WillLimit uint32 `protobuf:"varint,4,opt,name=will_limit,json=willLimit,proto3" json:"will_limit,omitempty"`
	// BeneficiaryLimit is the maximum number of beneficiaries of a will.
	// Zero means unlimited.
	BeneficiaryLimit uint32 `protobuf:"varint,5,opt,name=beneficiary_limit,json=beneficiaryLimit,proto3" json:"beneficiary_limit,omitempty"`
	// ChainID is the numeric chain identifier signed in attestations.
	ChainID   uint64              `protobuf:"varint,6,opt,name=chain_id,json=chainId,proto3" json:"chain_id,omitempty"`
	Operators []testament.Address `protobuf:"bytes,7,rep,name=operators,proto3" json:"operators,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// WillRecord is the router view of a will.
type WillRecord struct {
	WillID       uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Owner        testament.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	WillAddress  testament.Address `protobuf:"bytes,3,opt,name=will_address,json=willAddress,proto3" json:"will_address,omitempty"`
	GuardAddress testament.Address `protobuf:"bytes,4,opt,name=guard_address,json=guardAddress,proto3" json:"guard_address,omitempty"`
	Kind         will.Kind         `protobuf:"varint,5,opt,name=kind,proto3" json:"kind,omitempty"`
	Status       will.Status       `protobuf:"varint,6,opt,name=status,proto3" json:"status,omitempty"`
	CreatedAt    int64             `protobuf:"varint,7,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *WillRecord) Reset()         { *m = WillRecord{} }
func (m *WillRecord) String() string { return proto.CompactTextString(m) }
func (*WillRecord) ProtoMessage()    {}

// OwnerCounters track the wills of a single owner.
type OwnerCounters struct {
	Owner testament.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// Nonce is incremented on every creation and never decremented.
	Nonce     uint64 `protobuf:"varint,2,opt,name=nonce,proto3" json:"nonce,omitempty"`
	WillCount uint32 `protobuf:"varint,3,opt,name=will_count,json=willCount,proto3" json:"will_count,omitempty"`
}

func (m *OwnerCounters) Reset()         { *m = OwnerCounters{} }
func (m *OwnerCounters) String() string { return proto.CompactTextString(m) }
func (*OwnerCounters) ProtoMessage()    {}

// CreateWillMsg creates a will. Safe is required for forwarding wills.
type CreateWillMsg struct {
	Kind  will.Kind         `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Main  *will.MainConfig  `protobuf:"bytes,2,opt,name=main,proto3" json:"main,omitempty"`
	Extra *will.ExtraConfig `protobuf:"bytes,3,opt,name=extra,proto3" json:"extra,omitempty"`
	Safe  testament.Address `protobuf:"bytes,4,opt,name=safe,proto3" json:"safe,omitempty"`
	// Deposit is the native amount paid by the signer. It must cover the
	// will fee.
	Deposit []byte `protobuf:"bytes,5,opt,name=deposit,proto3" json:"deposit,omitempty"`
}

func (m *CreateWillMsg) Reset()         { *m = CreateWillMsg{} }
func (m *CreateWillMsg) String() string { return proto.CompactTextString(m) }
func (*CreateWillMsg) ProtoMessage()    {}

type DeleteWillMsg struct {
	WillID uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *DeleteWillMsg) Reset()         { *m = DeleteWillMsg{} }
func (m *DeleteWillMsg) String() string { return proto.CompactTextString(m) }
func (*DeleteWillMsg) ProtoMessage()    {}

type WithdrawMsg struct {
	WillID uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Amount []byte `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *WithdrawMsg) Reset()         { *m = WithdrawMsg{} }
func (m *WithdrawMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawMsg) ProtoMessage()    {}

type UpdateDistributionMsg struct {
	WillID                uint64               `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Nicknames             []string             `protobuf:"bytes,2,rep,name=nicknames,proto3" json:"nicknames,omitempty"`
	Distributions         []*will.Distribution `protobuf:"bytes,3,rep,name=distributions,proto3" json:"distributions,omitempty"`
	MinRequiredSignatures uint32               `protobuf:"varint,4,opt,name=min_required_signatures,json=minRequiredSignatures,proto3" json:"min_required_signatures,omitempty"`
}

func (m *UpdateDistributionMsg) Reset()         { *m = UpdateDistributionMsg{} }
func (m *UpdateDistributionMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateDistributionMsg) ProtoMessage()    {}

type SetBeneficiariesMsg struct {
	WillID                uint64              `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Nicknames             []string            `protobuf:"bytes,2,rep,name=nicknames,proto3" json:"nicknames,omitempty"`
	Beneficiaries         []testament.Address `protobuf:"bytes,3,rep,name=beneficiaries,proto3" json:"beneficiaries,omitempty"`
	MinRequiredSignatures uint32              `protobuf:"varint,4,opt,name=min_required_signatures,json=minRequiredSignatures,proto3" json:"min_required_signatures,omitempty"`
}

func (m *SetBeneficiariesMsg) Reset()         { *m = SetBeneficiariesMsg{} }
func (m *SetBeneficiariesMsg) String() string { return proto.CompactTextString(m) }
func (*SetBeneficiariesMsg) ProtoMessage()    {}

type SetConfigMsg struct {
	WillID uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Main   *will.MainConfig  `protobuf:"bytes,2,opt,name=main,proto3" json:"main,omitempty"`
	Extra  *will.ExtraConfig `protobuf:"bytes,3,opt,name=extra,proto3" json:"extra,omitempty"`
}

func (m *SetConfigMsg) Reset()         { *m = SetConfigMsg{} }
func (m *SetConfigMsg) String() string { return proto.CompactTextString(m) }
func (*SetConfigMsg) ProtoMessage()    {}

type SetActivationTriggerMsg struct {
	WillID                uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	LackOfOutgoingTxRange int64  `protobuf:"varint,2,opt,name=lack_of_outgoing_tx_range,json=lackOfOutgoingTxRange,proto3" json:"lack_of_outgoing_tx_range,omitempty"`
}

func (m *SetActivationTriggerMsg) Reset()         { *m = SetActivationTriggerMsg{} }
func (m *SetActivationTriggerMsg) String() string { return proto.CompactTextString(m) }
func (*SetActivationTriggerMsg) ProtoMessage()    {}

type SetNameNoteMsg struct {
	WillID uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Name   string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Note   string `protobuf:"bytes,3,opt,name=note,proto3" json:"note,omitempty"`
}

func (m *SetNameNoteMsg) Reset()         { *m = SetNameNoteMsg{} }
func (m *SetNameNoteMsg) String() string { return proto.CompactTextString(m) }
func (*SetNameNoteMsg) ProtoMessage()    {}

// ActivateWillMsg is sent by a beneficiary. Without a signature only the
// guard dormancy of a forwarding will is evaluated.
type ActivateWillMsg struct {
	WillID    uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Signature []byte `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *ActivateWillMsg) Reset()         { *m = ActivateWillMsg{} }
func (m *ActivateWillMsg) String() string { return proto.CompactTextString(m) }
func (*ActivateWillMsg) ProtoMessage()    {}

type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

type SetWillFeeMsg struct {
	Fee []byte `protobuf:"bytes,1,opt,name=fee,proto3" json:"fee,omitempty"`
}

func (m *SetWillFeeMsg) Reset()         { *m = SetWillFeeMsg{} }
func (m *SetWillFeeMsg) String() string { return proto.CompactTextString(m) }
func (*SetWillFeeMsg) ProtoMessage()    {}

type SetWillLimitMsg struct {
	Limit uint32 `protobuf:"varint,1,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *SetWillLimitMsg) Reset()         { *m = SetWillLimitMsg{} }
func (m *SetWillLimitMsg) String() string { return proto.CompactTextString(m) }
func (*SetWillLimitMsg) ProtoMessage()    {}

type SetBeneficiaryLimitMsg struct {
	Limit uint32 `protobuf:"varint,1,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *SetBeneficiaryLimitMsg) Reset()         { *m = SetBeneficiaryLimitMsg{} }
func (m *SetBeneficiaryLimitMsg) String() string { return proto.CompactTextString(m) }
func (*SetBeneficiaryLimitMsg) ProtoMessage()    {}

type AddOperatorMsg struct {
	Operator testament.Address `protobuf:"bytes,1,opt,name=operator,proto3" json:"operator,omitempty"`
}

func (m *AddOperatorMsg) Reset()         { *m = AddOperatorMsg{} }
func (m *AddOperatorMsg) String() string { return proto.CompactTextString(m) }
func (*AddOperatorMsg) ProtoMessage()    {}

type RemoveOperatorMsg struct {
	Operator testament.Address `protobuf:"bytes,1,opt,name=operator,proto3" json:"operator,omitempty"`
}

func (m *RemoveOperatorMsg) Reset()         { *m = RemoveOperatorMsg{} }
func (m *RemoveOperatorMsg) String() string { return proto.CompactTextString(m) }
func (*RemoveOperatorMsg) ProtoMessage()    {}

// WillCreatedEvent carries the full configuration of a new will.
type WillCreatedEvent struct {
	WillID       uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	WillAddress  testament.Address `protobuf:"bytes,2,opt,name=will_address,json=willAddress,proto3" json:"will_address,omitempty"`
	GuardAddress testament.Address `protobuf:"bytes,3,opt,name=guard_address,json=guardAddress,proto3" json:"guard_address,omitempty"`
	Owner        testament.Address `protobuf:"bytes,4,opt,name=owner,proto3" json:"owner,omitempty"`
	Safe         testament.Address `protobuf:"bytes,5,opt,name=safe,proto3" json:"safe,omitempty"`
	Main         *will.MainConfig  `protobuf:"bytes,6,opt,name=main,proto3" json:"main,omitempty"`
	Extra        *will.ExtraConfig `protobuf:"bytes,7,opt,name=extra,proto3" json:"extra,omitempty"`
	Timestamp    int64             `protobuf:"varint,8,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *WillCreatedEvent) Reset()         { *m = WillCreatedEvent{} }
func (m *WillCreatedEvent) String() string { return proto.CompactTextString(m) }
func (*WillCreatedEvent) ProtoMessage()    {}

// WillUpdatedEvent carries the configuration of a will after a change.
type WillUpdatedEvent struct {
	WillID    uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Main      *will.MainConfig  `protobuf:"bytes,2,opt,name=main,proto3" json:"main,omitempty"`
	Extra     *will.ExtraConfig `protobuf:"bytes,3,opt,name=extra,proto3" json:"extra,omitempty"`
	Timestamp int64             `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *WillUpdatedEvent) Reset()         { *m = WillUpdatedEvent{} }
func (m *WillUpdatedEvent) String() string { return proto.CompactTextString(m) }
func (*WillUpdatedEvent) ProtoMessage()    {}

type WillDeletedEvent struct {
	WillID    uint64            `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Owner     testament.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Refund    []byte            `protobuf:"bytes,3,opt,name=refund,proto3" json:"refund,omitempty"`
	Timestamp int64             `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *WillDeletedEvent) Reset()         { *m = WillDeletedEvent{} }
func (m *WillDeletedEvent) String() string { return proto.CompactTextString(m) }
func (*WillDeletedEvent) ProtoMessage()    {}

type WillWithdrawnEvent struct {
	WillID    uint64 `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Amount    []byte `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
	Timestamp int64  `protobuf:"varint,3,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *WillWithdrawnEvent) Reset()         { *m = WillWithdrawnEvent{} }
func (m *WillWithdrawnEvent) String() string { return proto.CompactTextString(m) }
func (*WillWithdrawnEvent) ProtoMessage()    {}

// WillActivatedEvent reports an activation call. Amounts are the totals
// paid per asset and are empty if the will was not triggered.
type WillActivatedEvent struct {
	WillID       uint64              `protobuf:"varint,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Triggered    bool                `protobuf:"varint,2,opt,name=triggered,proto3" json:"triggered,omitempty"`
	NativeAmount []byte              `protobuf:"bytes,3,opt,name=native_amount,json=nativeAmount,proto3" json:"native_amount,omitempty"`
	Assets       []testament.Address `protobuf:"bytes,4,rep,name=assets,proto3" json:"assets,omitempty"`
	Amounts      [][]byte            `protobuf:"bytes,5,rep,name=amounts,proto3" json:"amounts,omitempty"`
	Signer       testament.Address   `protobuf:"bytes,6,opt,name=signer,proto3" json:"signer,omitempty"`
	Timestamp    int64               `protobuf:"varint,7,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *WillActivatedEvent) Reset()         { *m = WillActivatedEvent{} }
func (m *WillActivatedEvent) String() string { return proto.CompactTextString(m) }
func (*WillActivatedEvent) ProtoMessage()    {}
