package evaluation

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github-portfolio-analyzer/internal/port"
)

// RecruiterGuide 内置的招聘评估知识库
//
//go:embed knowledge/recruiter_guide.txt
var RecruiterGuide string

// 切块与检索参数
const (
	ChunkSize    = 500
	ChunkOverlap = 100
	TopK         = 3
)

// Retriever 在知识库上做向量检索：切块、批量向量化、余弦相似度取前 k
type Retriever struct {
	embedder port.Embedder
	chunks   []string
	topK     int

	mu      sync.Mutex
	vectors [][]float32 // 与 chunks 一一对应，首次检索时生成
}

// NewRetriever 按段落切块，向量延迟到第一次检索时才计算
func NewRetriever(embedder port.Embedder, corpus string) *Retriever {
	return &Retriever{
		embedder: embedder,
		chunks:   ChunkText(corpus, ChunkSize, ChunkOverlap),
		topK:     TopK,
	}
}

func (r *Retriever) index(ctx context.Context) ([][]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vectors != nil {
		return r.vectors, nil
	}
	vectors, err := r.embedder.Embed(ctx, r.chunks)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(r.chunks) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d chunks", len(vectors), len(r.chunks))
	}
	r.vectors = vectors
	return vectors, nil
}

// Retrieve returns the chunks most similar to query, best first.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	if len(r.chunks) == 0 {
		return nil, nil
	}

	vectors, err := r.index(ctx)
	if err != nil {
		return nil, err
	}

	queryVectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(queryVectors))
	}

	type scored struct {
		idx        int
		similarity float64
	}
	ranked := make([]scored, len(vectors))
	for i, v := range vectors {
		ranked[i] = scored{idx: i, similarity: CosineSimilarity(queryVectors[0], v)}
	}
	// 相似度相同时保持知识库原顺序
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].similarity > ranked[b].similarity
	})

	k := min(r.topK, len(ranked))
	out := make([]string, 0, k)
	for _, s := range ranked[:k] {
		out = append(out, r.chunks[s.idx])
	}
	return out, nil
}

// CosineSimilarity 长度不同或零向量时返回 0
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ChunkText splits text on blank lines and packs paragraphs into chunks of at
// most size runes. Consecutive chunks share trailing paragraphs totalling no
// more than overlap runes. A paragraph longer than size becomes its own chunk.
func ChunkText(text string, size, overlap int) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current []string
	currentLen := 0

	joinedLen := func(n int) int {
		if len(current) == 0 {
			return n
		}
		return currentLen + 2 + n
	}

	for _, p := range paragraphs {
		plen := utf8.RuneCountInString(p)
		if len(current) > 0 && joinedLen(plen) > size {
			chunks = append(chunks, strings.Join(current, "\n\n"))

			// 从尾部保留不超过 overlap 的段落
			keep, kept := 0, 0
			for i := len(current) - 1; i >= 0; i-- {
				l := utf8.RuneCountInString(current[i])
				if kept > 0 {
					l += 2
				}
				if kept+l > overlap {
					break
				}
				kept += l
				keep++
			}
			current = append([]string(nil), current[len(current)-keep:]...)
			currentLen = kept
			// 保留的段落加上新段落仍然放不下时整段丢弃重叠
			if len(current) > 0 && joinedLen(plen) > size {
				current, currentLen = nil, 0
			}
		}
		currentLen = joinedLen(plen)
		current = append(current, p)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}
