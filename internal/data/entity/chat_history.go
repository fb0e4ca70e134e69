package entity

type MessageCategory string

const (
	CategoryQuestion  MessageCategory = "QUESTION"
	CategoryComplaint MessageCategory = "COMPLAINT"
	CategoryFeedback  MessageCategory = "FEEDBACK"
	CategoryGeneral   MessageCategory = "GENERAL"
)

type ChatHistory struct {
	BaseSimple
	UserEmail string          `db:"user_email"`
	Question  string          `db:"question"`
	Answer    string          `db:"answer"`
	Category  MessageCategory `db:"category"`
}
