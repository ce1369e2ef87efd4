package domain

// TextChunk is a contiguous slice of a document sent to a model in one request.
// Index is the zero-based position of the chunk in the document.
type TextChunk struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}
