// Package sheet is a flat-file knowledge store over spreadsheet exports:
// an info table (section, content, num_tokens, embeddings) and an
// append-only Q&A log (date, query, answer), both CSV.
//
// The positional column layout lives entirely inside this adapter;
// everything past it works with named fields. The store assumes a single
// writer: SaveComputedFields is a full rewrite with no atomicity
// guarantee, and AppendInteraction takes no file lock, so concurrent
// appends from multiple processes can collide.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fascani/amabot/internal/domain"
)

var (
	infoHeader = []string{"section", "content", "num_tokens", "embeddings"}
	logHeader  = []string{"date", "query", "answer"}
)

// Store reads and writes the two CSV tables.
type Store struct {
	infoPath string
	logPath  string
}

// NewStore creates a Store over the given info and Q&A log files.
func NewStore(infoPath, logPath string) *Store {
	return &Store{infoPath: infoPath, logPath: logPath}
}

// LoadEntries reads every row of the info table.
func (s *Store) LoadEntries(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	f, err := os.Open(s.infoPath)
	if err != nil {
		return nil, domain.NewStoreError("failed to open info table", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(infoHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return []*domain.KnowledgeEntry{}, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("failed to read info table header", err)
	}
	if !headerMatches(header, infoHeader) {
		return nil, domain.NewDataError(fmt.Sprintf("unexpected info table header: %v", header), nil)
	}

	var entries []*domain.KnowledgeEntry
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewStoreError(fmt.Sprintf("failed to read info table row %d", rowNum), err)
		}

		entry, err := entryFromRow(row, rowNum)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// SaveComputedFields writes back num_tokens and embeddings for every
// entry, rewriting the whole table in entry order. A failure mid-write can
// leave the table in a mixed old/new state; there is no rollback.
func (s *Store) SaveComputedFields(ctx context.Context, entries []*domain.KnowledgeEntry) error {
	f, err := os.Create(s.infoPath)
	if err != nil {
		return domain.NewStoreError("failed to open info table for writing", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(infoHeader); err != nil {
		return domain.NewStoreError("failed to write info table header", err)
	}

	for _, entry := range entries {
		row := []string{
			entry.Section,
			entry.Content,
			strconv.Itoa(entry.NumTokens),
			FormatEmbedding(entry.Embedding),
		}
		if err := writer.Write(row); err != nil {
			return domain.NewStoreError("failed to write info table row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.NewStoreError("failed to flush info table", err)
	}
	return nil
}

// AppendInteraction appends one row to the Q&A log, creating the file with
// its header on first use.
func (s *Store) AppendInteraction(ctx context.Context, interaction *domain.QAInteraction) error {
	if err := domain.ValidateQAInteraction(interaction); err != nil {
		return domain.NewDataError("invalid interaction", err)
	}

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.NewStoreError("failed to open Q&A log", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.NewStoreError("failed to stat Q&A log", err)
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := writer.Write(logHeader); err != nil {
			return domain.NewStoreError("failed to write Q&A log header", err)
		}
	}

	row := []string{interaction.DateString(), interaction.Query, interaction.Answer}
	if err := writer.Write(row); err != nil {
		return domain.NewStoreError("failed to append Q&A log row", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.NewStoreError("failed to flush Q&A log", err)
	}
	return nil
}

// LoadInteractions reads the full Q&A log. Used by the export path and by
// tests; the answering path never reads the log.
func (s *Store) LoadInteractions(ctx context.Context) ([]*domain.QAInteraction, error) {
	f, err := os.Open(s.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.QAInteraction{}, nil
		}
		return nil, domain.NewStoreError("failed to open Q&A log", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(logHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return []*domain.QAInteraction{}, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("failed to read Q&A log header", err)
	}
	if !headerMatches(header, logHeader) {
		return nil, domain.NewDataError(fmt.Sprintf("unexpected Q&A log header: %v", header), nil)
	}

	var interactions []*domain.QAInteraction
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewStoreError(fmt.Sprintf("failed to read Q&A log row %d", rowNum), err)
		}

		askedOn, err := parseDate(row[0])
		if err != nil {
			return nil, domain.NewDataError(fmt.Sprintf("malformed date %q in Q&A log row %d", row[0], rowNum), err)
		}
		interactions = append(interactions, domain.NewQAInteraction(askedOn, row[1], row[2]))
	}

	return interactions, nil
}

func entryFromRow(row []string, rowNum int) (*domain.KnowledgeEntry, error) {
	numTokens := 0
	if cell := strings.TrimSpace(row[2]); cell != "" {
		parsed, err := strconv.Atoi(cell)
		if err != nil {
			return nil, domain.NewDataError(fmt.Sprintf("malformed num_tokens %q in row %d", row[2], rowNum), err)
		}
		numTokens = parsed
	}

	vector, err := ParseEmbedding(row[3])
	if err != nil {
		return nil, domain.NewDataError(fmt.Sprintf("malformed embeddings cell in row %d", rowNum), err)
	}

	return domain.NewKnowledgeEntry(row[0], row[1], numTokens, vector), nil
}

func parseDate(cell string) (time.Time, error) {
	return time.Parse(domain.DateFormat, strings.TrimSpace(cell))
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != want[i] {
			return false
		}
	}
	return true
}
