package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/fascani/amabot/internal/domain"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists knowledge entries and the Q&A log in Postgres.
// Entry order is the position column; LoadEntries and SaveComputedFields
// rely on it, so callers must pass SaveComputedFields the same slice
// (possibly mutated in place) that LoadEntries returned.
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) LoadEntries(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT section, content, num_tokens, embedding
		 FROM bio_entries ORDER BY position`,
	)
	if err != nil {
		return nil, domain.NewStoreError("failed to load entries", err)
	}
	defer rows.Close()

	var entries []*domain.KnowledgeEntry
	for rows.Next() {
		var e domain.KnowledgeEntry
		var numTokens *int
		var embedding *pgvector.Vector
		if err := rows.Scan(&e.Section, &e.Content, &numTokens, &embedding); err != nil {
			return nil, domain.NewStoreError("failed to scan entry", err)
		}
		if numTokens != nil {
			e.NumTokens = *numTokens
		}
		if embedding != nil {
			e.Embedding = embedding.Slice()
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("failed to read entries", err)
	}
	return entries, nil
}

// SaveComputedFields updates num_tokens and embedding row by row. Rows are
// matched by position, so the slice must come from LoadEntries. Updates are
// not transactional: a failure partway leaves earlier rows updated.
func (s *Store) SaveComputedFields(ctx context.Context, entries []*domain.KnowledgeEntry) error {
	for i, e := range entries {
		var embedding *pgvector.Vector
		if e.HasEmbedding() {
			v := pgvector.NewVector(e.Embedding)
			embedding = &v
		}
		tag, err := s.db.Exec(ctx,
			`UPDATE bio_entries SET num_tokens = $1, embedding = $2, updated_at = now()
			 WHERE position = $3`,
			e.NumTokens, embedding, i+1,
		)
		if err != nil {
			return domain.NewStoreError(fmt.Sprintf("failed to update entry at position %d", i+1), err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NewStoreError(fmt.Sprintf("no entry at position %d", i+1), nil)
		}
	}
	return nil
}

// ReplaceEntries swaps the whole entry collection inside one transaction,
// assigning positions from slice order.
func (s *Store) ReplaceEntries(ctx context.Context, entries []*domain.KnowledgeEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.NewStoreError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bio_entries`); err != nil {
		return domain.NewStoreError("failed to clear entries", err)
	}
	for i, e := range entries {
		var embedding *pgvector.Vector
		if e.HasEmbedding() {
			v := pgvector.NewVector(e.Embedding)
			embedding = &v
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO bio_entries (position, section, content, num_tokens, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			i+1, e.Section, e.Content, e.NumTokens, embedding,
		)
		if err != nil {
			return domain.NewStoreError(fmt.Sprintf("failed to insert entry at position %d", i+1), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.NewStoreError("failed to commit entries", err)
	}
	return nil
}

func (s *Store) AppendInteraction(ctx context.Context, interaction *domain.QAInteraction) error {
	if err := domain.ValidateQAInteraction(interaction); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO qa_log (asked_on, query, answer) VALUES ($1, $2, $3)`,
		interaction.AskedOn, interaction.Query, interaction.Answer,
	)
	if err != nil {
		return domain.NewStoreError("failed to append interaction", err)
	}
	return nil
}

func (s *Store) LoadInteractions(ctx context.Context) ([]*domain.QAInteraction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT asked_on, query, answer FROM qa_log ORDER BY id`,
	)
	if err != nil {
		return nil, domain.NewStoreError("failed to load interactions", err)
	}
	defer rows.Close()

	var interactions []*domain.QAInteraction
	for rows.Next() {
		var q domain.QAInteraction
		if err := rows.Scan(&q.AskedOn, &q.Query, &q.Answer); err != nil {
			return nil, domain.NewStoreError("failed to scan interaction", err)
		}
		interactions = append(interactions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("failed to read interactions", err)
	}
	return interactions, nil
}
