package models

// Message and answer bounds
const (
	MaxMessageLength = 100
	AnswerCount      = 20
	MinAnswer        = 1
	MaxAnswer        = 5
	MinRating        = 1
	MaxRating        = 10
)

// SendMessageRequest is the body of POST /messages/send
type SendMessageRequest struct {
	SenderID    string `json:"senderId" validate:"required"`
	RecipientID string `json:"recipientId" validate:"required"`
	Content     string `json:"content" validate:"required,max=100"`
}

// SocketMessage is the payload of the sendMessage realtime event
type SocketMessage struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Content   string `json:"content" validate:"required,max=100"`
}

// RatingRequest is the body of POST /ratings
type RatingRequest struct {
	UserID  string `json:"userId" validate:"required"`
	MatchID string `json:"matchId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=10"`
}

// CreateProfileRequest is the body of POST /users
type CreateProfileRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Gender     string   `json:"gender" validate:"required"`
	LookingFor []string `json:"lookingFor" validate:"required,min=1,dive,required"`
}

// AnswersRequest is the body of POST /users/answers/{userId}
type AnswersRequest struct {
	Answers []int `json:"answers" validate:"len=20,dive,min=1,max=5"`
}

// BatchRequest is the body of POST /users/batch
type BatchRequest struct {
	IDs []string `json:"ids" validate:"required"`
}
