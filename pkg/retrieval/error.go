package retrieval

import "errors"

var (
	// ErrQueryEmbedding is returned when the query cannot be embedded.
	ErrQueryEmbedding = errors.New("embedding query")

	// ErrVectorStore is returned when the vector search fails for a reason
	// other than an unindexed filter field.
	ErrVectorStore = errors.New("searching vector store")

	// ErrRerank is returned when the reranker model fails.
	ErrRerank = errors.New("reranking candidates")
)
