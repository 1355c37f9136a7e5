package domain

// Franchise is the top taxonomy dimension
type Franchise struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Order int    `json:"order,omitempty"`
}

// Collection belongs to a Franchise
type Collection struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	FranchiseID string `json:"franchiseId"`
	Order       int    `json:"order,omitempty"`
}

// Subcollection belongs to a Collection
type Subcollection struct {
	ID           string `json:"-"`
	Name         string `json:"name"`
	CollectionID string `json:"collectionId"`
	Order        int    `json:"order,omitempty"`
}

// Product is attached to a Subcollection
type Product struct {
	ID              string   `json:"-"`
	Name            string   `json:"name"`
	SKU             string   `json:"sku,omitempty"`
	SubcollectionID string   `json:"subcollectionId,omitempty"`
	ImageIDs        []string `json:"imageIds,omitempty"`
}

// Image is the catalog record of a stored file
type Image struct {
	ID              string `json:"-"`
	Filename        string `json:"filename"`
	OriginalName    string `json:"originalName,omitempty"`
	Size            int64  `json:"size,omitempty"`
	MimeType        string `json:"mimetype,omitempty"`
	Path            string `json:"path,omitempty"`
	FolderID        string `json:"folderId,omitempty"`
	SubcollectionID string `json:"subcollectionId,omitempty"`
	Alt             string `json:"alt,omitempty"`
}

// Folder organizes images, folders may nest
type Folder struct {
	ID       string `json:"-"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

func (f *Franchise) GetID() string     { return f.ID }
func (f *Franchise) SetID(id string)   { f.ID = id }
func (c *Collection) GetID() string    { return c.ID }
func (c *Collection) SetID(id string)  { c.ID = id }
func (s *Subcollection) GetID() string { return s.ID }
func (s *Subcollection) SetID(id string) { s.ID = id }
func (p *Product) GetID() string   { return p.ID }
func (p *Product) SetID(id string) { p.ID = id }
func (i *Image) GetID() string     { return i.ID }
func (i *Image) SetID(id string)   { i.ID = id }
func (f *Folder) GetID() string    { return f.ID }
func (f *Folder) SetID(id string)  { f.ID = id }
