package model

// MediaRef identifies an object held by the media store. The ID is assigned
// by the store on upload and is the handle used for deletion; ownership of
// the object transfers to the entity (order or review) that persists the ref.
type MediaRef struct {
	ID     string `json:"id" db:"id"`
	URL    string `json:"url" db:"url"`
	Format string `json:"format" db:"format"`
	Width  int    `json:"width" db:"width"`
	Height int    `json:"height" db:"height"`
}
