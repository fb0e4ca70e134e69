package repository

import (
	"context"
	"fmt"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/pkg/database"

	"go.uber.org/zap"
)

type KnowledgeRepository interface {
	Find(ctx context.Context, queryType entity.QueryType, mine, material string) ([]*entity.KnowledgeEntry, error)
}

// knowledgeQueries is the allow-list of statements; the table name never
// comes from user input.
var knowledgeQueries = map[entity.QueryType]string{
	entity.QueryActsRules: `
		SELECT id, mine_type, material, title, content
		FROM acts_rules
		WHERE mine_type = $1 AND material = $2
		ORDER BY id`,
	entity.QueryCirculars: `
		SELECT id, mine_type, material, title, content
		FROM circulars
		WHERE mine_type = $1 AND material = $2
		ORDER BY id`,
	entity.QueryFAQs: `
		SELECT id, mine_type, material, title, content
		FROM faqs
		WHERE mine_type = $1 AND material = $2
		ORDER BY id`,
}

type knowledgeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewKnowledgeRepository(db database.Querier, log *zap.Logger) KnowledgeRepository {
	return &knowledgeRepository{
		db:  db,
		log: log.With(zap.String("repository", "knowledge")),
	}
}

func (r *knowledgeRepository) Find(ctx context.Context, queryType entity.QueryType, mine, material string) ([]*entity.KnowledgeEntry, error) {
	query, ok := knowledgeQueries[queryType]
	if !ok {
		return nil, fmt.Errorf("unknown query type %q", queryType)
	}

	rows, err := r.db.Query(ctx, query, mine, material)
	if err != nil {
		r.log.Error("Failed to query knowledge",
			zap.Error(err),
			zap.String("query_type", string(queryType)),
		)
		return nil, fmt.Errorf("query %s: %w", queryType, err)
	}
	defer rows.Close()

	var entries []*entity.KnowledgeEntry
	for rows.Next() {
		entry := entity.KnowledgeEntry{Type: queryType}
		if err := rows.Scan(&entry.ID, &entry.MineType, &entry.Material, &entry.Title, &entry.Content); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", queryType, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", queryType, err)
	}

	return entries, nil
}
