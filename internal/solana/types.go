package solana

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Pubkey     string
	Lamports   uint64
	Owner      string
	Data       []byte // decoded account data
	Executable bool
}

// MemcmpFilter matches accounts whose data at Offset equals Bytes
// (base58-encoded on the wire).
type MemcmpFilter struct {
	Offset int
	Bytes  string
}

// LogsFilter defines a logs subscription filter.
type LogsFilter struct {
	// Mentions filters logs that mention any of these program IDs.
	Mentions []string
}

// LogNotification is one logsSubscribe message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{}
}
