package types

// Event types
const (
	EventTypeChannelOpen        = "channel_open"
	EventTypeChannelOpenAck     = "channel_open_ack"
	EventTypeChannelOpenConfirm = "channel_open_confirm"
	EventTypeChannelClose       = "channel_close"
	EventTypePacketSend         = "packet_send"
	EventTypePacketReceive      = "packet_receive"
	EventTypePacketAck          = "packet_ack"
	EventTypePacketTimeout      = "packet_timeout"
	EventTypeRefund             = "refund"

	EventTypeMakePool                = "make_pool"
	EventTypeTakePool                = "take_pool"
	EventTypeCancelPool              = "cancel_pool"
	EventTypeSingleAssetDeposit      = "single_asset_deposit"
	EventTypeMakeMultiAssetDeposit   = "make_multi_asset_deposit"
	EventTypeTakeMultiAssetDeposit   = "take_multi_asset_deposit"
	EventTypeCancelMultiAssetDeposit = "cancel_multi_asset_deposit"
	EventTypeMultiAssetWithdraw      = "multi_asset_withdraw"
	EventTypeSwap                    = "swap"
	EventTypeUpdateParams            = "update_params"
)

// Event attribute keys
const (
	AttributeKeyChannelID             = "channel_id"
	AttributeKeyPortID                = "port_id"
	AttributeKeyCounterpartyPortID    = "counterparty_port_id"
	AttributeKeyCounterpartyChannelID = "counterparty_channel_id"
	AttributeKeyPacketType            = "packet_type"
	AttributeKeySequence              = "sequence"
	AttributeKeyAckSuccess            = "ack_success"
	AttributeKeyAckError              = "ack_error"
	AttributeKeyStage                 = "stage"
	AttributeKeyPoolID                = "pool_id"
	AttributeKeyOrderID               = "order_id"
	AttributeKeyStatus                = "status"
	AttributeKeySender                = "sender"
	AttributeKeyReceiver              = "receiver"
	AttributeKeyTokensIn              = "tokens_in"
	AttributeKeyTokensOut             = "tokens_out"
	AttributeKeyPoolTokens            = "pool_tokens"
	AttributeKeyRefund                = "refund"
)

// Protocol stages used as the stage attribute
const (
	StageInitiate = "initiate"
	StageReceive  = "receive"
	StageAck      = "acknowledge"
	StageRefund   = "refund"
)
