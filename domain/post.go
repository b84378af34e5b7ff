package domain

type CreatePostRequest struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

// Submission is the queue message body, transmitted by value
type Submission struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

type Post struct {
	Id                string `json:"id"`
	Text              string `json:"text"`
	WordCount         int    `json:"wordCount"`
	AverageWordLength int    `json:"averageWordLength"`
}

type CreatePostResponse struct {
	Message string `json:"message"`
}

type GetPostResponse struct {
	Post Post `json:"post"`
}
