package retrieval

import "github.com/poiesic/faqtory/core"

// Monitor provides hooks to observe retrieval.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(chain string, queries []core.Query)
	AfterEmbedding(texts []string)
	AfterSearch(results []core.QueryResult)
	BeforeAnswer(question string, chunks []core.ChunkMatch)
	Finish(results []core.QueryResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []core.Query)             {}
func (n *noopMonitor) AfterEmbedding(_ []string)                  {}
func (n *noopMonitor) AfterSearch(_ []core.QueryResult)           {}
func (n *noopMonitor) BeforeAnswer(_ string, _ []core.ChunkMatch) {}
func (n *noopMonitor) Finish(_ []core.QueryResult)                {}
