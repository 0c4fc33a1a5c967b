package models

// Chunk is one retrieval unit: a contiguous span of the normalized textbook
// text. Consecutive chunks share a bounded verbatim overlap. ChunkIndex is
// the stable identity correlating a chunk with its embedding; StartChar and
// EndChar record the half-open character span in the normalized source and
// are best-effort provenance, not a byte-exact guarantee.
type Chunk struct {
	Text       string `json:"text"`
	StartChar  int    `json:"start_char"`
	EndChar    int    `json:"end_char"`
	ChunkIndex int    `json:"chunk_index"`
}

// RetrievalResult is a Chunk scored against one query. Created per query,
// never persisted.
type RetrievalResult struct {
	Chunk
	Similarity float64 `json:"similarity"`
}

// Question is one multiple-choice question from a batch file. Correct holds
// the full text of the right choice and must equal one of Choices.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Correct  string   `json:"correct"`
}
