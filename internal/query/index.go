// Package query implements the read-side operations over a populated
// store: full-text search, file trace, lineage graph construction, and
// manifest/operations diffing (C6).
package query

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/engramhq/engram/internal/record"
	"github.com/engramhq/engram/internal/stringutil"
)

// Field names match §4.5's document shape.
const (
	FieldAgent          = "agent"
	FieldSummary        = "summary"
	FieldIntentText     = "intent_text"
	FieldTranscriptText = "transcript_text"
	FieldTags           = "tags"
	FieldFilePaths      = "file_paths"
)

// textFields carries a BM25 relevance weight per field; summary and
// tags are treated as more informative than raw transcript text.
var textFields = map[string]float64{
	FieldAgent:          1.0,
	FieldSummary:        3.0,
	FieldIntentText:     2.0,
	FieldTranscriptText: 1.0,
	FieldTags:           2.0,
	FieldFilePaths:      1.0,
}

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Document is one indexed record, with its stored (displayable) fields
// alongside the indexed text.
type Document struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Stored    map[string]string `json:"stored"`
	Fields    map[string]string `json:"-"`
}

// posting is one term's occurrence count within one document's field.
type posting struct {
	docID string
	field string
	freq  int
}

// Index is an in-memory inverted index over engram documents, scored
// with BM25 per field and combined by the weights in textFields.
type Index struct {
	docs     map[string]Document
	postings map[string][]posting // term -> postings
	docLen   map[string]map[string]int // docID -> field -> token count
	avgLen   map[string]float64        // field -> average token count across docs
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		docs:     make(map[string]Document),
		postings: make(map[string][]posting),
		docLen:   make(map[string]map[string]int),
		avgLen:   make(map[string]float64),
	}
}

// DocumentFor builds the indexable Document for a fully loaded record.
func DocumentFor(data *record.Data) Document {
	var transcriptText strings.Builder
	for _, e := range data.Transcript {
		if e.Content.Kind == record.ContentKindText {
			transcriptText.WriteString(e.Content.Text)
			transcriptText.WriteString(" ")
		}
	}
	var filePaths []string
	for _, fc := range data.Operations.FileChanges {
		filePaths = append(filePaths, fc.Path)
	}

	doc := Document{
		ID:        string(data.Manifest.ID),
		CreatedAt: data.Manifest.CreatedAt,
		Stored: map[string]string{
			FieldAgent:   data.Manifest.Agent.Name,
			FieldSummary: data.Manifest.Summary,
			FieldTags:    strings.Join(data.Manifest.Tags, ","),
		},
		Fields: map[string]string{
			FieldAgent:          data.Manifest.Agent.Name,
			FieldSummary:        data.Manifest.Summary,
			FieldIntentText:     data.Intent.OriginalRequest + " " + data.Intent.InterpretedGoal + " " + data.Intent.Summary,
			FieldTranscriptText: transcriptText.String(),
			FieldTags:           strings.Join(data.Manifest.Tags, " "),
			FieldFilePaths:      strings.Join(filePaths, " "),
		},
	}
	return doc
}

// Add indexes or re-indexes doc, replacing any prior entry with the same ID.
func (idx *Index) Add(doc Document) {
	idx.Remove(doc.ID)
	idx.docs[doc.ID] = doc
	idx.docLen[doc.ID] = make(map[string]int)

	for field, text := range doc.Fields {
		terms := tokenize(text)
		idx.docLen[doc.ID][field] = len(terms)

		counts := make(map[string]int)
		for _, t := range terms {
			counts[t]++
		}
		for term, freq := range counts {
			idx.postings[term] = append(idx.postings[term], posting{docID: doc.ID, field: field, freq: freq})
		}
	}
	idx.recomputeAverages()
}

// Remove deletes a document and all of its postings from the index.
func (idx *Index) Remove(id string) {
	if _, ok := idx.docs[id]; !ok {
		return
	}
	delete(idx.docs, id)
	delete(idx.docLen, id)
	for term, posts := range idx.postings {
		kept := posts[:0]
		for _, p := range posts {
			if p.docID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(idx.postings, term)
		} else {
			idx.postings[term] = kept
		}
	}
	idx.recomputeAverages()
}

func (idx *Index) recomputeAverages() {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, lens := range idx.docLen {
		for field, n := range lens {
			sums[field] += n
			counts[field]++
		}
	}
	idx.avgLen = make(map[string]float64)
	for field, sum := range sums {
		if counts[field] > 0 {
			idx.avgLen[field] = float64(sum) / float64(counts[field])
		}
	}
}

// Hit is a ranked search result with an excerpt for display.
type Hit struct {
	ID      string
	Score   float64
	Summary string
	Excerpt string
}

// Search ranks documents against query using BM25 per field, combined
// by textFields' weights, and returns the top limit hits (0 = no limit).
func (idx *Index) Search(query string, limit int) []Hit {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	scores := make(map[string]float64)
	n := float64(len(idx.docs))
	for _, term := range terms {
		posts, ok := idx.postings[term]
		if !ok {
			continue
		}
		docsWithTerm := make(map[string]bool)
		for _, p := range posts {
			docsWithTerm[p.docID] = true
		}
		idf := math.Log(1 + (n-float64(len(docsWithTerm))+0.5)/(float64(len(docsWithTerm))+0.5))

		for _, p := range posts {
			weight := textFields[p.field]
			avg := idx.avgLen[p.field]
			if avg == 0 {
				avg = 1
			}
			dl := float64(idx.docLen[p.docID][p.field])
			tf := float64(p.freq)
			denom := tf + bm25K1*(1-bm25B+bm25B*dl/avg)
			score := idf * (tf * (bm25K1 + 1)) / denom * weight
			scores[p.docID] += score
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		doc := idx.docs[id]
		hits = append(hits, Hit{
			ID:      id,
			Score:   score,
			Summary: doc.Stored[FieldSummary],
			Excerpt: excerpt(doc.Fields[FieldIntentText], doc.Stored[FieldSummary]),
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func excerpt(intentText, summary string) string {
	text := stringutil.CollapseWhitespace(intentText)
	if text == "" {
		text = summary
	}
	const maxRunes = 160
	return stringutil.TruncateRunes(text, maxRunes, "…")
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})
}

// indexEntry is the on-disk shape of one document for persistence.
type indexEntry struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Stored    map[string]string `json:"stored"`
	Fields    map[string]string `json:"fields"`
}

// Save persists the index's documents (not its derived postings, which
// are rebuilt on Load) to a JSONL file, one line per document.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("query: create index dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path is derived from repo discovery
	if err != nil {
		return fmt.Errorf("query: create index file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	ids := make([]string, 0, len(idx.docs))
	for id := range idx.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := bufio.NewWriter(f)
	for _, id := range ids {
		doc := idx.docs[id]
		entry := indexEntry{ID: doc.ID, CreatedAt: doc.CreatedAt, Stored: doc.Stored, Fields: doc.Fields}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("query: marshal document %s: %w", id, err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadIndex reads a persisted index from disk, rebuilding postings.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path) //nolint:gosec // path is derived from repo discovery
	if err != nil {
		return nil, fmt.Errorf("query: open index: %w", err)
	}
	defer f.Close() //nolint:errcheck

	idx := NewIndex()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry indexEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		idx.Add(Document{ID: entry.ID, CreatedAt: entry.CreatedAt, Stored: entry.Stored, Fields: entry.Fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("query: read index: %w", err)
	}
	return idx, nil
}
