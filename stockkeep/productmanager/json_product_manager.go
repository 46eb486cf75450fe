package productmanager

import (
	"strings"
	"sync"

	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/datamanager"
)

const DefaultFile = "products.json"

type JSONProductManager struct {
	DataManager datamanager.DataManager
	File        string
	Logger      logger.Logger

	mu       sync.RWMutex
	products []*Product
}

type Option func(*JSONProductManager)

// WithFile sets the catalog document name.
func WithFile(file string) Option {
	return func(pm *JSONProductManager) {
		pm.File = file
	}
}

// WithLogger sets the logger for a JSONProductManager.
func WithLogger(l logger.Logger) Option {
	return func(pm *JSONProductManager) {
		pm.Logger = l
	}
}

// NewJSONProductManager returns an empty catalog. Call LoadProducts to populate it.
func NewJSONProductManager(dm datamanager.DataManager, options ...Option) *JSONProductManager {
	pm := &JSONProductManager{
		DataManager: dm,
		File:        DefaultFile,
		Logger:      logger.Discard(),
	}
	for _, option := range options {
		option(pm)
	}
	return pm
}

func (pm *JSONProductManager) LoadProducts() error {
	var records []Product
	if err := pm.DataManager.Load(pm.File, &records); err != nil {
		return err
	}

	products := make([]*Product, 0, len(records))
	for i := range records {
		p := records[i]
		products = append(products, &p)
	}

	pm.mu.Lock()
	pm.products = products
	pm.mu.Unlock()

	pm.Logger.Info("Loaded products", "file", pm.File, "count", len(products))
	return nil
}

func (pm *JSONProductManager) SaveProducts() error {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.flush()
}

// Records returns the serializable view of the catalog.
func (pm *JSONProductManager) Records() []Product {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.records()
}

func (pm *JSONProductManager) ListProducts() []Product {
	return pm.Records()
}

func (pm *JSONProductManager) FindByName(name string) (*Product, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.find(name)
}

func (pm *JSONProductManager) AddProduct(name string, quantity int, price float64) (*Product, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p := &Product{Name: name, Quantity: quantity, Price: price}
	pm.products = append(pm.products, p)
	pm.Logger.Info("Added product", "name", name, "quantity", quantity, "price", price)
	return p, pm.flush()
}

func (pm *JSONProductManager) RemoveProduct(name string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.find(name)
	if err != nil {
		return err
	}

	for i, candidate := range pm.products {
		if candidate == p {
			pm.products = append(pm.products[:i], pm.products[i+1:]...)
			break
		}
	}
	pm.Logger.Info("Removed product", "name", p.Name)
	return pm.flush()
}

func (pm *JSONProductManager) EditProduct(name string, edit ProductEdit) (*Product, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.find(name)
	if err != nil {
		return nil, err
	}

	if edit.Name != nil && *edit.Name != "" {
		p.Name = *edit.Name
	}
	if edit.Quantity != nil {
		p.Quantity = *edit.Quantity
	}
	if edit.Price != nil {
		p.Price = *edit.Price
	}
	pm.Logger.Info("Edited product", "name", name, "new_name", p.Name, "quantity", p.Quantity, "price", p.Price)
	return p, pm.flush()
}

func (pm *JSONProductManager) AdjustQuantity(p *Product, delta int) (bool, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if p.Quantity+delta < 0 {
		pm.Logger.Debug("Rejected quantity change", "name", p.Name, "quantity", p.Quantity, "delta", delta)
		return false, nil
	}
	p.Quantity += delta
	return true, pm.flush()
}

func (pm *JSONProductManager) UpdatePrice(p *Product, price float64) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p.Price = price
	return pm.flush()
}

// find expects pm.mu to be held.
func (pm *JSONProductManager) find(name string) (*Product, error) {
	for _, p := range pm.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (pm *JSONProductManager) records() []Product {
	records := make([]Product, 0, len(pm.products))
	for _, p := range pm.products {
		records = append(records, *p)
	}
	return records
}

// flush expects pm.mu to be held.
func (pm *JSONProductManager) flush() error {
	records := pm.records()
	if err := pm.DataManager.Save(pm.File, records); err != nil {
		pm.Logger.Error("Failed to save products", "file", pm.File, "error", err)
		return err
	}
	pm.Logger.Debug("Saved products", "file", pm.File, "count", len(records))
	return nil
}
