package types

const (
	// ModuleName defines the module name
	ModuleName = "interchainswap"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// PortID is the default port the module binds to
	PortID = "interchainswap"

	// Version defines the current channel version
	Version = "ics101-1"
)
