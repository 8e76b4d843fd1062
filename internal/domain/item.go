package domain

// Item is one labeling unit: an image together with the question-answer pair
// a reviewer judges. Items are loaded once from the catalog and never mutated.
type Item struct {
	ImageID      string `json:"image_id"`
	QuestionType string `json:"question_type"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	ImagePath    string `json:"image_path"`
}
