package entity

// QueryType selects one of the fixed knowledge tables.
type QueryType string

const (
	QueryActsRules QueryType = "acts_rules"
	QueryCirculars QueryType = "circulars"
	QueryFAQs      QueryType = "faqs"
)

type KnowledgeEntry struct {
	ID       int64     `db:"id"`
	Type     QueryType `db:"-"`
	MineType string    `db:"mine_type"`
	Material string    `db:"material"`
	Title    string    `db:"title"`
	Content  string    `db:"content"`
}
