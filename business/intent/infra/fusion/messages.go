package fusion

// Wire types for the fusion quoter and relayer endpoints.

type tokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

type presetPayload struct {
	AuctionDuration    int    `json:"auctionDuration"`
	StartAuctionIn     int    `json:"startAuctionIn"`
	AuctionStartAmount string `json:"auctionStartAmount"`
	AuctionEndAmount   string `json:"auctionEndAmount"`
	AllowPartialFills  bool   `json:"allowPartialFills"`
	AllowMultipleFills bool   `json:"allowMultipleFills"`
}

type quoteResponse struct {
	QuoteID           string                   `json:"quoteId"`
	SrcToken          tokenInfo                `json:"srcToken"`
	DstToken          tokenInfo                `json:"dstToken"`
	Gas               int64                    `json:"gas"`
	Presets           map[string]presetPayload `json:"presets"`
	RecommendedPreset string                   `json:"recommendedPreset"`
}

type submitRequest struct {
	Order     any    `json:"order"`
	Signature string `json:"signature"`
	QuoteID   string `json:"quoteId"`
	Extension string `json:"extension"`
}

type submitResponse struct {
	OrderHash string `json:"orderHash"`
}

type statusResponse struct {
	Status          string `json:"status"`
	OrderHash       string `json:"orderHash"`
	TxHash          string `json:"txHash"`
	AuctionDuration int64  `json:"auctionDuration"`
	Fills           []struct {
		TxHash                   string `json:"txHash"`
		FilledMakerAmount        string `json:"filledMakerAmount"`
		FilledAuctionTakerAmount string `json:"filledAuctionTakerAmount"`
	} `json:"fills"`
}

type apiError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
	Message     string `json:"message"`
}
