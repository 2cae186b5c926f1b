package models

import "time"

type GalleryImage struct {
	ID          string    `json:"id" bson:"id"`
	URL         string    `json:"url" bson:"url"`
	ThumbURL    string    `json:"thumb_url,omitempty" bson:"thumb_url,omitempty"`
	EventID     string    `json:"event_id,omitempty" bson:"event_id,omitempty"`
	Title       string    `json:"title,omitempty" bson:"title,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at" bson:"uploaded_at"`
	IsFeatured  bool      `json:"is_featured" bson:"is_featured"`
}
