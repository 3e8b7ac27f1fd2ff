// Package devserver is a self-contained rendition of the ordering backend:
// the full store/admin/sys/media/ws surface over an embedded sqlite
// database. It backs integration tests and offline development; production
// deployments point the clients at the real backend instead.
package devserver

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"omniorder/internal/models"
)

// tenantRecord is a provisioned store.
type tenantRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Domain       string `gorm:"uniqueIndex"`
	SchemaName   string
	Preset       string
	PrimaryColor string
	FontFamily   string
	Currency     string
	Address      string
	Phone        string
	Hours        string
	CreatedAt    time.Time
}

// categoryRecord is a menu category row.
type categoryRecord struct {
	ID        string `gorm:"primaryKey"`
	TenantID  string `gorm:"index"`
	Name      string
	Rank      int
	CreatedAt time.Time
}

// itemRecord is a menu item row. Modifier groups are stored as a JSON blob;
// the dev store never queries inside them.
type itemRecord struct {
	ID             string `gorm:"primaryKey"`
	TenantID       string `gorm:"index"`
	Name           string
	Description    string
	Price          int64
	ImageURL       string
	IsAvailable    bool
	CategoryID     string `gorm:"index"`
	Rank           int
	ModifierGroups string
	CreatedAt      time.Time
}

// orderRecord is an order row. Items are stored as a JSON blob.
type orderRecord struct {
	ID           string `gorm:"primaryKey"`
	TicketNumber int
	CustomerName string
	TableNumber  string
	Items        string
	Status       string `gorm:"index"`
	CreatedAt    time.Time
}

// leadRecord captures a contact form submission.
type leadRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Store wraps the dev database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (or creates) the sqlite database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("devserver: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&tenantRecord{}, &categoryRecord{}, &itemRecord{}, &orderRecord{}, &leadRecord{}); err != nil {
		return nil, fmt.Errorf("devserver: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// demoTenantID is the tenant every demo session binds to.
const demoTenantID = "demo"

// SeedDemo resets the demo tenant to its canonical state: branding, three
// starter items, no orders.
func (s *Store) SeedDemo() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&orderRecord{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{&itemRecord{}, &categoryRecord{}} {
			if err := tx.Where("tenant_id = ?", demoTenantID).Delete(m).Error; err != nil {
				return err
			}
		}

		tenant := tenantRecord{
			ID:         demoTenantID,
			Name:       "OmniOrder Demo Kitchen",
			Domain:     "demo.localhost",
			SchemaName: "tenant_demo",
			Preset:     "mono-luxe",
			Currency:   "USD",
			Hours:      "11:00-22:00",
		}
		if err := tx.Save(&tenant).Error; err != nil {
			return err
		}

		mains := categoryRecord{ID: uuid.NewString(), TenantID: demoTenantID, Name: "Mains", Rank: 0}
		sides := categoryRecord{ID: uuid.NewString(), TenantID: demoTenantID, Name: "Sides & Shakes", Rank: 1}
		if err := tx.Create([]categoryRecord{mains, sides}).Error; err != nil {
			return err
		}

		burgerMods, _ := json.Marshal([]models.ModifierGroup{{
			ID:        "size",
			Name:      "Size",
			MinSelect: 1,
			MaxSelect: 1,
			Options: []models.ModifierOption{
				{ID: "single", Name: "Single", Price: 0},
				{ID: "double", Name: "Double", Price: 300},
			},
		}})

		items := []itemRecord{
			{ID: uuid.NewString(), TenantID: demoTenantID, Name: "OmniBurger", Description: "House smash burger", Price: 1400, IsAvailable: true, CategoryID: mains.ID, Rank: 0, ModifierGroups: string(burgerMods)},
			{ID: uuid.NewString(), TenantID: demoTenantID, Name: "Truffle Fries", Description: "Hand cut, truffle oil", Price: 600, IsAvailable: true, CategoryID: sides.ID, Rank: 0, ModifierGroups: "[]"},
			{ID: uuid.NewString(), TenantID: demoTenantID, Name: "Vanilla Shake", Description: "Madagascar vanilla", Price: 500, IsAvailable: true, CategoryID: sides.ID, Rank: 1, ModifierGroups: "[]"},
		}
		return tx.Create(items).Error
	})
}

// TenantConfig returns the demo tenant's branding record.
func (s *Store) TenantConfig() (models.TenantConfig, error) {
	var t tenantRecord
	if err := s.db.First(&t, "id = ?", demoTenantID).Error; err != nil {
		return models.TenantConfig{}, err
	}
	return models.TenantConfig{
		Name:         t.Name,
		Preset:       t.Preset,
		PrimaryColor: t.PrimaryColor,
		FontFamily:   t.FontFamily,
		Currency:     t.Currency,
		Address:      t.Address,
		Phone:        t.Phone,
		Hours:        t.Hours,
	}, nil
}

// UpdateTenantConfig applies the admin settings screen's changes.
func (s *Store) UpdateTenantConfig(cfg models.TenantConfig) error {
	return s.db.Model(&tenantRecord{ID: demoTenantID}).Updates(map[string]interface{}{
		"name":          cfg.Name,
		"preset":        cfg.Preset,
		"primary_color": cfg.PrimaryColor,
		"font_family":   cfg.FontFamily,
		"currency":      cfg.Currency,
		"address":       cfg.Address,
		"phone":         cfg.Phone,
		"hours":         cfg.Hours,
	}).Error
}

// Provision creates a new tenant. The domain must be unused. With seed set
// the tenant also gets a small starter menu so its storefront is not empty
// on first visit.
func (s *Store) Provision(name, domain, primaryColor, fontFamily string, seed bool) (tenantRecord, error) {
	t := tenantRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Domain:       domain,
		SchemaName:   "tenant_" + strings.ReplaceAll(strings.ToLower(name), " ", "_"),
		Preset:       "mono-luxe",
		PrimaryColor: primaryColor,
		FontFamily:   fontFamily,
		Currency:     "USD",
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		if !seed {
			return nil
		}
		starters := categoryRecord{ID: uuid.NewString(), TenantID: t.ID, Name: "Starters", Rank: 0}
		if err := tx.Create(&starters).Error; err != nil {
			return err
		}
		items := []itemRecord{
			{ID: uuid.NewString(), TenantID: t.ID, Name: "House Salad", Description: "Greens, house dressing", Price: 900, IsAvailable: true, CategoryID: starters.ID, Rank: 0, ModifierGroups: "[]"},
			{ID: uuid.NewString(), TenantID: t.ID, Name: "Soup of the Day", Description: "Ask your server", Price: 700, IsAvailable: true, CategoryID: starters.ID, Rank: 1, ModifierGroups: "[]"},
		}
		return tx.Create(items).Error
	})
	if err != nil {
		return tenantRecord{}, err
	}
	return t, nil
}

// Menu returns all categories with their available items, ranked.
func (s *Store) Menu() ([]models.Category, error) {
	cats, err := s.Categories()
	if err != nil {
		return nil, err
	}
	for i := range cats {
		var rows []itemRecord
		if err := s.db.Where("tenant_id = ? AND category_id = ? AND is_available = ?", demoTenantID, cats[i].ID, true).
			Order("rank asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			cats[i].Items = append(cats[i].Items, r.toModel())
		}
	}
	return cats, nil
}

// Categories returns the demo tenant's categories in rank order, without
// items.
func (s *Store) Categories() ([]models.Category, error) {
	var rows []categoryRecord
	if err := s.db.Where("tenant_id = ?", demoTenantID).Order("rank asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Category{ID: r.ID, Name: r.Name, Rank: r.Rank})
	}
	return out, nil
}

// CreateCategory inserts a category for the demo tenant.
func (s *Store) CreateCategory(name string, rank int) (models.Category, error) {
	rec := categoryRecord{ID: uuid.NewString(), TenantID: demoTenantID, Name: name, Rank: rank}
	if err := s.db.Create(&rec).Error; err != nil {
		return models.Category{}, err
	}
	return models.Category{ID: rec.ID, Name: rec.Name, Rank: rec.Rank}, nil
}

// DeleteCategory removes a category and its items.
func (s *Store) DeleteCategory(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&itemRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&categoryRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReorderCategories rewrites category ranks to match ids' positions.
func (s *Store) ReorderCategories(ids []string) error {
	return s.reorder(&categoryRecord{}, ids)
}

// Items returns the demo tenant's items, available or not, for the admin
// menu builder.
func (s *Store) Items() ([]models.MenuItem, error) {
	var rows []itemRecord
	if err := s.db.Where("tenant_id = ?", demoTenantID).Order("rank asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.MenuItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// CreateItem inserts a menu item.
func (s *Store) CreateItem(m models.MenuItem) (models.MenuItem, error) {
	rec, err := itemFromModel(m)
	if err != nil {
		return models.MenuItem{}, err
	}
	rec.ID = uuid.NewString()
	rec.TenantID = demoTenantID
	if err := s.db.Create(&rec).Error; err != nil {
		return models.MenuItem{}, err
	}
	return rec.toModel(), nil
}

// UpdateItem replaces an item's editable fields.
func (s *Store) UpdateItem(id string, m models.MenuItem) (models.MenuItem, error) {
	rec, err := itemFromModel(m)
	if err != nil {
		return models.MenuItem{}, err
	}
	res := s.db.Model(&itemRecord{ID: id}).Updates(map[string]interface{}{
		"name":            rec.Name,
		"description":     rec.Description,
		"price":           rec.Price,
		"image_url":       rec.ImageURL,
		"is_available":    rec.IsAvailable,
		"category_id":     rec.CategoryID,
		"modifier_groups": rec.ModifierGroups,
	})
	if res.Error != nil {
		return models.MenuItem{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.MenuItem{}, gorm.ErrRecordNotFound
	}
	var saved itemRecord
	if err := s.db.First(&saved, "id = ?", id).Error; err != nil {
		return models.MenuItem{}, err
	}
	return saved.toModel(), nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(id string) error {
	res := s.db.Delete(&itemRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReorderItems rewrites item ranks to match ids' positions.
func (s *Store) ReorderItems(ids []string) error {
	return s.reorder(&itemRecord{}, ids)
}

func (s *Store) reorder(model interface{}, ids []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for rank, id := range ids {
			if err := tx.Model(model).Where("id = ?", id).Update("rank", rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Item returns one menu item by id.
func (s *Store) Item(id string) (models.MenuItem, error) {
	var rec itemRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return models.MenuItem{}, err
	}
	return rec.toModel(), nil
}

// CreateOrder persists a new order in PENDING with the next ticket number.
func (s *Store) CreateOrder(customerName, tableNumber string, items []models.OrderItem) (models.Order, error) {
	blob, err := json.Marshal(items)
	if err != nil {
		return models.Order{}, err
	}
	var rec orderRecord
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxTicket int
		row := tx.Model(&orderRecord{}).Select("COALESCE(MAX(ticket_number), 0)").Row()
		if err := row.Scan(&maxTicket); err != nil {
			return err
		}
		rec = orderRecord{
			ID:           uuid.NewString(),
			TicketNumber: maxTicket + 1,
			CustomerName: customerName,
			TableNumber:  tableNumber,
			Items:        string(blob),
			Status:       string(models.StatusPending),
			CreatedAt:    time.Now().UTC(),
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return rec.toModel()
}

// Order returns one order by id.
func (s *Store) Order(id string) (models.Order, error) {
	var rec orderRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return models.Order{}, err
	}
	return rec.toModel()
}

// ActiveOrders returns every non-terminal order, oldest first.
func (s *Store) ActiveOrders() ([]models.Order, error) {
	var rows []orderRecord
	if err := s.db.Where("status <> ?", string(models.StatusCompleted)).
		Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// SetOrderStatus updates an order's status.
func (s *Store) SetOrderStatus(id string, status models.OrderStatus) (models.Order, error) {
	res := s.db.Model(&orderRecord{ID: id}).Update("status", string(status))
	if res.Error != nil {
		return models.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return s.Order(id)
}

// SaveLead records a contact form submission.
func (s *Store) SaveLead(name, email, message string) error {
	return s.db.Create(&leadRecord{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Message: message,
	}).Error
}

func (r itemRecord) toModel() models.MenuItem {
	var groups []models.ModifierGroup
	if r.ModifierGroups != "" {
		_ = json.Unmarshal([]byte(r.ModifierGroups), &groups)
	}
	return models.MenuItem{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		ImageURL:       r.ImageURL,
		IsAvailable:    r.IsAvailable,
		CategoryID:     r.CategoryID,
		ModifierGroups: groups,
	}
}

func itemFromModel(m models.MenuItem) (itemRecord, error) {
	blob, err := json.Marshal(m.ModifierGroups)
	if err != nil {
		return itemRecord{}, err
	}
	return itemRecord{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Price:          m.Price,
		ImageURL:       m.ImageURL,
		IsAvailable:    m.IsAvailable,
		CategoryID:     m.CategoryID,
		ModifierGroups: string(blob),
	}, nil
}

func (r orderRecord) toModel() (models.Order, error) {
	var items []models.OrderItem
	if r.Items != "" {
		if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
			return models.Order{}, fmt.Errorf("devserver: order %s: corrupt items: %w", r.ID, err)
		}
	}
	return models.Order{
		ID:           r.ID,
		TicketNumber: r.TicketNumber,
		CustomerName: r.CustomerName,
		TableNumber:  r.TableNumber,
		Items:        items,
		Status:       models.OrderStatus(r.Status),
		CreatedAt:    r.CreatedAt,
	}, nil
}
