package entity

type Post struct {
	Id                string `db:"id"`
	Text              string `db:"text"`
	WordCount         int    `db:"word_count"`
	AverageWordLength int    `db:"average_word_length"`
}
