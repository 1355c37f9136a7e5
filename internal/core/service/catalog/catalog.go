package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// Catalog bundles the stores of every collection and keeps the
// franchise > collection > subcollection hierarchy consistent.
type Catalog struct {
	Franchises     *Store[domain.Franchise, *domain.Franchise]
	Collections    *Store[domain.Collection, *domain.Collection]
	Subcollections *Store[domain.Subcollection, *domain.Subcollection]
	Products       *Store[domain.Product, *domain.Product]
	Images         *Store[domain.Image, *domain.Image]
	Folders        *Store[domain.Folder, *domain.Folder]

	logger *slog.Logger
}

// New creates a catalog over docs, call Load before reading it
func New(docs port.DocumentStore, logger *slog.Logger) *Catalog {
	return &Catalog{
		Franchises:     NewStore[domain.Franchise](docs, domain.CollectionFranchises, logger),
		Collections:    NewStore[domain.Collection](docs, domain.CollectionCollections, logger),
		Subcollections: NewStore[domain.Subcollection](docs, domain.CollectionSubcollections, logger),
		Products:       NewStore[domain.Product](docs, domain.CollectionProducts, logger),
		Images:         NewStore[domain.Image](docs, domain.CollectionImages, logger),
		Folders:        NewStore[domain.Folder](docs, domain.CollectionFolders, logger),
		logger:         logger,
	}
}

// Load fills every store, it stops at the first failure
func (c *Catalog) Load(ctx context.Context) error {
	loaders := []func(context.Context) error{
		c.Franchises.Load,
		c.Collections.Load,
		c.Subcollections.Load,
		c.Products.Load,
		c.Images.Load,
		c.Folders.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) AddFranchise(ctx context.Context, franchise domain.Franchise) (domain.Franchise, error) {
	return c.Franchises.Add(ctx, franchise)
}

// AddCollection requires the parent franchise to exist
func (c *Catalog) AddCollection(ctx context.Context, collection domain.Collection) (domain.Collection, error) {
	if _, ok := c.Franchises.Get(collection.FranchiseID); !ok {
		return domain.Collection{}, fmt.Errorf("%w: franchise %q", domain.ErrParentNotFound, collection.FranchiseID)
	}
	return c.Collections.Add(ctx, collection)
}

// AddSubcollection requires the parent collection to exist
func (c *Catalog) AddSubcollection(ctx context.Context, subcollection domain.Subcollection) (domain.Subcollection, error) {
	if _, ok := c.Collections.Get(subcollection.CollectionID); !ok {
		return domain.Subcollection{}, fmt.Errorf("%w: collection %q", domain.ErrParentNotFound, subcollection.CollectionID)
	}
	return c.Subcollections.Add(ctx, subcollection)
}

// AddProduct checks the subcollection when one is given
func (c *Catalog) AddProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.SubcollectionID != "" {
		if _, ok := c.Subcollections.Get(product.SubcollectionID); !ok {
			return domain.Product{}, fmt.Errorf("%w: subcollection %q", domain.ErrParentNotFound, product.SubcollectionID)
		}
	}
	return c.Products.Add(ctx, product)
}

// AddFolder checks the parent folder when one is given
func (c *Catalog) AddFolder(ctx context.Context, folder domain.Folder) (domain.Folder, error) {
	if folder.ParentID != "" {
		if _, ok := c.Folders.Get(folder.ParentID); !ok {
			return domain.Folder{}, fmt.Errorf("%w: folder %q", domain.ErrParentNotFound, folder.ParentID)
		}
	}
	return c.Folders.Add(ctx, folder)
}

// EnsureFolder returns the folder called name under parentID, creating it when missing
func (c *Catalog) EnsureFolder(ctx context.Context, name, parentID string) (domain.Folder, error) {
	existing := c.Folders.Filter(func(f domain.Folder) bool {
		return f.Name == name && f.ParentID == parentID
	})
	if len(existing) > 0 {
		return existing[0], nil
	}

	folder, err := c.AddFolder(ctx, domain.Folder{Name: name, ParentID: parentID})
	if err != nil {
		return domain.Folder{}, err
	}
	c.logger.Info("folder created", "id", folder.ID, "name", name)
	return folder, nil
}

// DeleteFranchise refuses while collections still reference it
func (c *Catalog) DeleteFranchise(ctx context.Context, id string) error {
	children := c.Collections.Filter(func(col domain.Collection) bool { return col.FranchiseID == id })
	if len(children) > 0 {
		return fmt.Errorf("%w: franchise %q has %d collections", domain.ErrHasChildren, id, len(children))
	}
	return c.Franchises.Remove(ctx, id)
}

// DeleteCollection refuses while subcollections still reference it
func (c *Catalog) DeleteCollection(ctx context.Context, id string) error {
	children := c.Subcollections.Filter(func(sub domain.Subcollection) bool { return sub.CollectionID == id })
	if len(children) > 0 {
		return fmt.Errorf("%w: collection %q has %d subcollections", domain.ErrHasChildren, id, len(children))
	}
	return c.Collections.Remove(ctx, id)
}

// DeleteSubcollection refuses while products or images still reference it
func (c *Catalog) DeleteSubcollection(ctx context.Context, id string) error {
	products := c.Products.Filter(func(p domain.Product) bool { return p.SubcollectionID == id })
	images := c.Images.Filter(func(i domain.Image) bool { return i.SubcollectionID == id })
	if len(products)+len(images) > 0 {
		return fmt.Errorf("%w: subcollection %q has %d products and %d images", domain.ErrHasChildren, id, len(products), len(images))
	}
	return c.Subcollections.Remove(ctx, id)
}

// DeleteFolder refuses while folders or images are inside it
func (c *Catalog) DeleteFolder(ctx context.Context, id string) error {
	folders := c.Folders.Filter(func(f domain.Folder) bool { return f.ParentID == id })
	images := c.ImagesInFolder(id)
	if len(folders)+len(images) > 0 {
		return fmt.Errorf("%w: folder %q has %d folders and %d images", domain.ErrHasChildren, id, len(folders), len(images))
	}
	return c.Folders.Remove(ctx, id)
}

// ImagesInFolder lists images of folderID, an empty id lists unfiled images
func (c *Catalog) ImagesInFolder(folderID string) []domain.Image {
	return c.Images.Filter(func(i domain.Image) bool { return i.FolderID == folderID })
}

// MoveImages sets the folder of every image in ids. An empty folderID unfiles them.
// Every image is attempted, the errors are joined.
func (c *Catalog) MoveImages(ctx context.Context, ids []string, folderID string) error {
	if folderID != "" {
		if _, ok := c.Folders.Get(folderID); !ok {
			return fmt.Errorf("%w: folder %q", domain.ErrParentNotFound, folderID)
		}
	}

	var errs []error
	for _, id := range ids {
		_, err := c.Images.Update(ctx, id, func(image *domain.Image) {
			image.FolderID = folderID
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("image %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
