package entity

// Embedding service wire types.

type EmbedRequest struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Vector index wire types.

type VectorQueryRequest struct {
	Table  string    `json:"table,omitempty"`
	Vector []float32 `json:"vector"`
	Limit  int       `json:"limit"`
}

type VectorMatch struct {
	Item     string  `json:"item"`
	Distance float32 `json:"distance,omitempty"`
}

type VectorQueryResponse struct {
	Matches []VectorMatch `json:"matches"`
}

// RetrievedContext is the content of the single nearest neighbor. It lives
// for one request only.
type RetrievedContext struct {
	Text string
}

// Completion service wire types.

type CompleteRequest struct {
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type CompleteResponse struct {
	Text string `json:"text"`
}
