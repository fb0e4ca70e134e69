package entity

import "time"

type ChatStage string

const (
	StageSelectMine      ChatStage = "select_mine"
	StageSelectMaterial  ChatStage = "select_material"
	StageSelectQueryType ChatStage = "select_query_type"
)

// ChatSession is the state of one guided chatbot conversation.
type ChatSession struct {
	ID               string    `json:"id"`
	Stage            ChatStage `json:"stage"`
	SelectedMine     string    `json:"selected_mine,omitempty"`
	SelectedMaterial string    `json:"selected_material,omitempty"`
	QueryType        QueryType `json:"query_type,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
