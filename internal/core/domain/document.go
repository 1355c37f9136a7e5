package domain

import "time"

// Collection names of the catalog document store
const (
	CollectionFranchises     = "franchises"
	CollectionCollections    = "collections"
	CollectionSubcollections = "subcollections"
	CollectionProducts       = "products"
	CollectionImages         = "images"
	CollectionFolders        = "folders"
)

// KnownCollections lists every collection the document store accepts
var KnownCollections = map[string]bool{
	CollectionFranchises:     true,
	CollectionCollections:    true,
	CollectionSubcollections: true,
	CollectionProducts:       true,
	CollectionImages:         true,
	CollectionFolders:        true,
}

// Document is a schemaless record of a collection.
// A nil value in an update patch means "remove this field".
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
