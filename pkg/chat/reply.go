package chat

// Reply represents the body of a successful POST /chat response. The text is
// the provider's first candidate with surrounding whitespace trimmed.
type Reply struct {
	AIReply string `json:"aiReply"`
}
