package model

// ProviderStatus reports the health of the live market-data provider as
// observed by the resilience layer.
type ProviderStatus string

const (
	ProviderOK          ProviderStatus = "ok"
	ProviderDegraded    ProviderStatus = "degraded"
	ProviderUnavailable ProviderStatus = "unavailable"
)
