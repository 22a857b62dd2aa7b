package server

// VectorEntry is one id/vector pair in an insert request.
type VectorEntry struct {
	ID     string    `json:"id"`
	Values []float32 `json:"values"`
}

// ItemResult reports the outcome of a single item in a batch mutation.
type ItemResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type InsertRequest struct {
	DB      string        `json:"db"`
	Vectors []VectorEntry `json:"vectors"`
}

type InsertResponse struct {
	Inserted int          `json:"inserted"`
	Results  []ItemResult `json:"results"`
}

// SearchQuery is one query vector with its match limit. A zero or
// negative TopK falls back to the default of 5.
type SearchQuery struct {
	Value []float32 `json:"value"`
	TopK  int       `json:"top_k"`
}

type SearchRequest struct {
	DB      string        `json:"db"`
	Queries []SearchQuery `json:"queries"`
}

// Match is one scored hit for a query.
type Match struct {
	ID     string    `json:"id"`
	Score  float32   `json:"score"`
	Values []float32 `json:"values"`
}

// QueryResult holds the matches for one query. Matches is empty and
// Message is set when the query failed.
type QueryResult struct {
	Matches []Match `json:"matches"`
	Message string  `json:"message,omitempty"`
}

type SearchResponse struct {
	Results []QueryResult `json:"results"`
}

type GetRequest struct {
	DB  string   `json:"db"`
	IDs []string `json:"ids"`
}

// GetItem carries the vector for one requested id. Values is null when
// the id is absent.
type GetItem struct {
	ID     string    `json:"id"`
	Values []float32 `json:"values"`
}

type GetResponse struct {
	Results []GetItem `json:"results"`
}

type DeleteRequest struct {
	DB  string   `json:"db"`
	IDs []string `json:"ids"`
}

type DeleteResponse struct {
	Deleted int          `json:"deleted"`
	Results []ItemResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}
