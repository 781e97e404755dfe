package domain

// Table is the name of a mongo collection
type Table string

const (
	TableListings          Table = "listings"
	TableProceeds          Table = "proceeds"
	TableTokens            Table = "tokens"
	TableOperatorApprovals Table = "operator_approvals"
	TableTokenCounters     Table = "token_counters"
	TablePayouts           Table = "payouts"
	TableEvents            Table = "marketplace_events"
)
