package repository

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"inventory-tracker/internal/codec"
	"inventory-tracker/internal/fsutil"
	"inventory-tracker/internal/model"
	"inventory-tracker/internal/source"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// productStore implements ProductRepository over a delimited backing file.
// It is not safe for concurrent use.
type productStore struct {
	path   string
	perm   os.FileMode
	loader source.Loader
	now    func() time.Time
	logger zerolog.Logger

	items []model.Product // insertion order
	index map[string]int  // product_id -> position in items
}

// Option configures a product store.
type Option func(*productStore)

// WithLoader sets where Load reads the backing file from. Defaults to the local file system.
func WithLoader(loader source.Loader) Option {
	return func(s *productStore) { s.loader = loader }
}

// WithClock overrides the time source used for last_updated.
func WithClock(now func() time.Time) Option {
	return func(s *productStore) { s.now = now }
}

// WithFileMode sets the permissions of the rewritten backing file.
func WithFileMode(perm os.FileMode) Option {
	return func(s *productStore) { s.perm = perm }
}

// NewProductRepository creates an empty store persisting to path. Call Load to read existing records.
func NewProductRepository(path string, logger zerolog.Logger, opts ...Option) ProductRepository {
	s := &productStore{
		path:   path,
		perm:   0o644,
		now:    time.Now,
		logger: logger.With().Str("repository", "product").Logger(),
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = source.NewFileLoader(logger)
	}
	return s
}

// Open creates a store for path and loads it.
func Open(ctx context.Context, path string, logger zerolog.Logger, opts ...Option) (ProductRepository, *LoadReport, error) {
	repo := NewProductRepository(path, logger, opts...)
	report, err := repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return repo, report, nil
}

// Load replaces the in-memory records with the contents of the backing file.
// A missing backing file leaves the store empty. Rows that fail to parse are
// skipped and reported; the rest are kept.
func (s *productStore) Load(ctx context.Context) (*LoadReport, error) {
	rc, err := s.loader.Load(ctx, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Str("file", s.path).Msg("inventory file not found, starting with empty inventory")
			s.replaceAll(nil)
			return &LoadReport{}, nil
		}
		return nil, &model.PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer rc.Close()

	res, err := codec.Decode(rc, s.now())
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to decode inventory file")
		if errors.Is(err, model.ErrMalformedRecord) {
			return nil, err
		}
		return nil, &model.PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	for _, skipped := range res.Skipped {
		s.logger.Warn().
			Str("file", s.path).
			Int("line", skipped.Line).
			Str("reason", skipped.Reason).
			Msg("skipping malformed inventory row")
	}

	s.replaceAll(res.Products)

	s.logger.Info().
		Str("file", s.path).
		Int("loaded", len(res.Products)).
		Int("skipped", len(res.Skipped)).
		Msg("inventory loaded")

	return &LoadReport{Loaded: len(res.Products), Skipped: res.Skipped}, nil
}

func (s *productStore) replaceAll(products []model.Product) {
	s.items = slices.Clone(products)
	s.reindex()
}

func (s *productStore) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, p := range s.items {
		s.index[p.ID] = i
	}
}

// save rewrites the backing file from the in-memory records.
func (s *productStore) save() error {
	err := fsutil.AtomicWriteFile(s.path, s.perm, func(w io.Writer) error {
		if !strings.HasSuffix(s.path, ".gz") {
			return codec.Encode(w, s.items)
		}
		gz := gzip.NewWriter(w)
		if err := codec.Encode(gz, s.items); err != nil {
			return err
		}
		return gz.Close()
	})
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to save inventory")
		return &model.PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	s.logger.Debug().Str("file", s.path).Int("count", len(s.items)).Msg("inventory saved")
	return nil
}

func (s *productStore) today() time.Time {
	return model.DateOf(s.now())
}

// GetProduct retrieves a single product by its ID.
func (s *productStore) GetProduct(id string) (model.Product, error) {
	i, ok := s.index[id]
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return model.Product{}, &model.NotFoundError{ProductID: id}
	}
	return s.items[i], nil
}

// AddProduct validates and inserts a new product. Nothing changes on failure.
func (s *productStore) AddProduct(p model.Product) (model.Product, error) {
	p = normalize(p)
	p.LastUpdated = s.today()

	if err := model.ValidateProduct(p); err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("rejected invalid product")
		return model.Product{}, err
	}
	if _, exists := s.index[p.ID]; exists {
		s.logger.Warn().Str("product_id", p.ID).Msg("rejected duplicate product ID")
		return model.Product{}, &model.DuplicateKeyError{ProductID: p.ID}
	}

	s.items = append(s.items, p)
	s.index[p.ID] = len(s.items) - 1

	if err := s.save(); err != nil {
		s.items = s.items[:len(s.items)-1]
		delete(s.index, p.ID)
		return model.Product{}, err
	}

	s.logger.Info().Str("product_id", p.ID).Str("product_name", p.Name).Msg("product added")
	return p, nil
}

// UpdateProduct merges the supplied fields into an existing product and
// refreshes last_updated. Unsupplied fields are untouched.
func (s *productStore) UpdateProduct(id string, update model.ProductUpdate) (model.Product, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Product{}, &model.NotFoundError{ProductID: id}
	}
	if update.IsEmpty() {
		return model.Product{}, model.NewValidationError("update", "no fields to update")
	}

	updated, err := s.replace(i, normalize(update.Apply(s.items[i])))
	if err != nil {
		return model.Product{}, err
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

// UpdateQuantity adds delta to the product's quantity. A result below zero
// is rejected without touching the record.
func (s *productStore) UpdateQuantity(id string, delta int) (model.Product, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Product{}, &model.NotFoundError{ProductID: id}
	}

	current := s.items[i]
	newQty := current.Quantity + delta
	if newQty < 0 {
		s.logger.Warn().
			Str("product_id", id).
			Int("current", current.Quantity).
			Int("delta", delta).
			Msg("rejected quantity change below zero")
		return model.Product{}, &model.InsufficientStockError{ProductID: id, Current: current.Quantity, Delta: delta}
	}

	current.Quantity = newQty
	updated, err := s.replace(i, current)
	if err != nil {
		return model.Product{}, err
	}

	s.logger.Info().
		Str("product_id", id).
		Int("from", newQty-delta).
		Int("to", newQty).
		Msg("quantity updated")
	return updated, nil
}

// replace validates p, stores it at position i and persists, restoring
// the previous record if the write fails.
func (s *productStore) replace(i int, p model.Product) (model.Product, error) {
	p.LastUpdated = s.today()
	if err := model.ValidateProduct(p); err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("rejected invalid update")
		return model.Product{}, err
	}

	previous := s.items[i]
	s.items[i] = p

	if err := s.save(); err != nil {
		s.items[i] = previous
		return model.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product and persists the change.
func (s *productStore) DeleteProduct(id string) error {
	i, ok := s.index[id]
	if !ok {
		return &model.NotFoundError{ProductID: id}
	}

	removed := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.reindex()

	if err := s.save(); err != nil {
		s.items = slices.Insert(s.items, i, removed)
		s.reindex()
		return err
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// ListProducts returns every product in insertion order.
func (s *productStore) ListProducts() []model.Product {
	return slices.Clone(s.items)
}

// Count returns the number of products held.
func (s *productStore) Count() int {
	return len(s.items)
}

func (s *productStore) filter(keep func(p model.Product) bool) []model.Product {
	out := []model.Product{}
	for _, p := range s.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts matches keyword against name and category, ignoring case.
func (s *productStore) SearchProducts(keyword string) []model.Product {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(keyword))
	if needle == "" {
		return []model.Product{}
	}

	return s.filter(func(p model.Product) bool {
		return strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Category), needle)
	})
}

// FilterByCategory returns products in category, ignoring case.
func (s *productStore) FilterByCategory(category string) []model.Product {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(category))
	return s.filter(func(p model.Product) bool {
		return fold.String(p.Category) == want
	})
}

// FilterBySupplier returns products from supplier, ignoring case.
func (s *productStore) FilterBySupplier(supplier string) []model.Product {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(supplier))
	return s.filter(func(p model.Product) bool {
		return fold.String(p.Supplier) == want
	})
}

// GetLowStockItems returns products with quantity at or below their reorder level.
func (s *productStore) GetLowStockItems() []model.Product {
	return s.filter(model.Product.IsLowStock)
}

// TotalInventoryValue returns the exact sum of quantity * unit_price.
func (s *productStore) TotalInventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.items {
		total = total.Add(p.Value())
	}
	return total
}

// TotalQuantity returns the number of units on hand across all products.
func (s *productStore) TotalQuantity() int {
	total := 0
	for _, p := range s.items {
		total += p.Quantity
	}
	return total
}

// CategorySummary groups products by category in a single pass.
// average_price is the mean unit price, rounded to cents.
func (s *productStore) CategorySummary() []model.CategoryStats {
	var summary []model.CategoryStats
	positions := make(map[string]int)
	priceSums := make(map[string]decimal.Decimal)

	for _, p := range s.items {
		i, ok := positions[p.Category]
		if !ok {
			i = len(summary)
			positions[p.Category] = i
			summary = append(summary, model.CategoryStats{Category: p.Category, TotalValue: decimal.Zero})
			priceSums[p.Category] = decimal.Zero
		}

		stats := &summary[i]
		stats.Count++
		stats.TotalQuantity += p.Quantity
		stats.TotalValue = stats.TotalValue.Add(p.Value())
		priceSums[p.Category] = priceSums[p.Category].Add(p.UnitPrice)
	}

	for i := range summary {
		stats := &summary[i]
		stats.AveragePrice = priceSums[stats.Category].Div(decimal.NewFromInt(int64(stats.Count))).Round(2)
	}

	return summary
}

// normalize trims text fields and rounds the price to cents.
func normalize(p model.Product) model.Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Supplier = strings.TrimSpace(p.Supplier)
	p.WarehouseLocation = strings.TrimSpace(p.WarehouseLocation)
	p.UnitPrice = model.NormalizePrice(p.UnitPrice)
	return p
}

var _ ProductRepository = (*productStore)(nil)
