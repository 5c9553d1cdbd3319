package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"nur/internal/core"
	"nur/internal/metrics"
)

// ErrInvalidBookmark is returned for bookmarks missing an owner, a known kind
// or a reference.
var ErrInvalidBookmark = errors.New("invalid bookmark")

const (
	opListBookmarks  = "list bookmarks"
	opAddBookmark    = "add bookmark"
	opRemoveBookmark = "remove bookmark"
	opLoadSettings   = "load settings"
	opSaveSettings   = "save settings"
)

type bookmarkRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	OwnerID     string    `gorm:"uniqueIndex:idx_bookmark_ref;size:100;not null"`
	Kind        string    `gorm:"uniqueIndex:idx_bookmark_ref;size:16;not null"`
	ReferenceID string    `gorm:"uniqueIndex:idx_bookmark_ref;size:200;not null"`
	Title       string    `gorm:"size:500"`
	Subtitle    string    `gorm:"size:500"`
	ArabicText  string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index"`
}

func (bookmarkRow) TableName() string {
	return "bookmarks"
}

func (r bookmarkRow) toBookmark() core.Bookmark {
	return core.Bookmark{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Kind:        core.BookmarkKind(r.Kind),
		ReferenceID: r.ReferenceID,
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		ArabicText:  r.ArabicText,
		CreatedAt:   r.CreatedAt,
	}
}

type settingRow struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (settingRow) TableName() string {
	return "settings"
}

// Gateway stores bookmarks and settings in sqlite through gorm.
type Gateway struct {
	db      *gorm.DB
	index   *BookmarkIndex
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// settingsMu serialises read-modify-write patches of the settings blob.
	settingsMu sync.Mutex
}

// Open opens (or creates) the sqlite database at path and migrates it.
func Open(ctx context.Context, cfg core.StoreConfig, logger *zap.Logger, m *metrics.Metrics) (*Gateway, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Path, err)
	}

	gw := NewGateway(db, NewBookmarkIndex(cfg.IndexCapacity, cfg.IndexFalsePositiveRate), logger, m)
	if err := db.AutoMigrate(&bookmarkRow{}, &settingRow{}); err != nil {
		_ = gw.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := gw.WarmIndex(ctx); err != nil {
		_ = gw.Close()
		return nil, err
	}

	logger.Info("Bookmark store opened",
		zap.String("path", cfg.Path),
		zap.Int("indexed", gw.index.Size()))
	return gw, nil
}

// NewGateway wraps an already migrated database.
func NewGateway(db *gorm.DB, index *BookmarkIndex, logger *zap.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		db:      db,
		index:   index,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// WarmIndex loads every stored bookmark identity into the index.
func (g *Gateway) WarmIndex(ctx context.Context) error {
	var rows []bookmarkRow
	err := g.db.WithContext(ctx).
		Model(&bookmarkRow{}).
		Select("owner_id", "kind", "reference_id").
		Order("created_at DESC").
		Limit(g.index.capacity).
		Find(&rows).Error
	if err != nil {
		return g.fail(opListBookmarks, err)
	}

	keys := make([]string, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		keys = append(keys, IndexKey(rows[i].OwnerID, core.BookmarkKind(rows[i].Kind), rows[i].ReferenceID))
	}
	g.index.Load(keys)
	return nil
}

// Close closes the underlying database connection.
func (g *Gateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListBookmarks returns the owner's bookmarks, newest first.
func (g *Gateway) ListBookmarks(ctx context.Context, ownerID string, kind core.BookmarkKind) ([]core.Bookmark, error) {
	query := g.db.WithContext(ctx).Model(&bookmarkRow{}).Where("owner_id = ?", ownerID)
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}

	var rows []bookmarkRow
	if err := query.Order("created_at DESC, rowid DESC").Find(&rows).Error; err != nil {
		return nil, g.fail(opListBookmarks, err)
	}

	bookmarks := make([]core.Bookmark, 0, len(rows))
	for _, row := range rows {
		bookmarks = append(bookmarks, row.toBookmark())
	}
	return bookmarks, nil
}

// AddBookmark stores b. Adding the same reference twice returns the stored
// bookmark unchanged.
func (g *Gateway) AddBookmark(ctx context.Context, b core.Bookmark) (core.Bookmark, error) {
	if b.OwnerID == "" || b.ReferenceID == "" || !b.Kind.Valid() {
		return core.Bookmark{}, g.fail(opAddBookmark, fmt.Errorf("%w: owner=%q kind=%q reference=%q",
			ErrInvalidBookmark, b.OwnerID, b.Kind, b.ReferenceID))
	}

	key := IndexKey(b.OwnerID, b.Kind, b.ReferenceID)
	if g.index.Has(key) || !g.index.Complete() {
		existing, err := g.find(ctx, b.OwnerID, b.Kind, b.ReferenceID)
		switch {
		case err == nil:
			return existing.toBookmark(), nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return core.Bookmark{}, g.fail(opAddBookmark, err)
		}
	}

	row := bookmarkRow{
		ID:          uuid.NewString(),
		OwnerID:     b.OwnerID,
		Kind:        string(b.Kind),
		ReferenceID: b.ReferenceID,
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		ArabicText:  b.ArabicText,
		CreatedAt:   g.now().UTC(),
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return core.Bookmark{}, g.fail(opAddBookmark, err)
	}

	g.index.Add(key)
	g.logger.Debug("Bookmark added",
		zap.String("id", row.ID),
		zap.String("kind", row.Kind),
		zap.String("reference", row.ReferenceID))
	return row.toBookmark(), nil
}

// RemoveBookmark deletes the bookmark with id. Removing an unknown id is not
// an error.
func (g *Gateway) RemoveBookmark(ctx context.Context, id string) error {
	var row bookmarkRow
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return g.fail(opRemoveBookmark, err)
	}

	if err := g.db.WithContext(ctx).Where("id = ?", id).Delete(&bookmarkRow{}).Error; err != nil {
		return g.fail(opRemoveBookmark, err)
	}

	g.index.Remove(IndexKey(row.OwnerID, core.BookmarkKind(row.Kind), row.ReferenceID))
	return nil
}

// IsBookmarked reports whether the owner has bookmarked the reference.
func (g *Gateway) IsBookmarked(ctx context.Context, ownerID string, kind core.BookmarkKind, referenceID string) (bool, error) {
	key := IndexKey(ownerID, kind, referenceID)
	if g.index.Has(key) {
		return true, nil
	}
	if g.index.Complete() {
		return false, nil
	}

	_, err := g.find(ctx, ownerID, kind, referenceID)
	switch {
	case err == nil:
		g.index.Add(key)
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, g.fail(opListBookmarks, err)
	}
}

func (g *Gateway) find(ctx context.Context, ownerID string, kind core.BookmarkKind, referenceID string) (*bookmarkRow, error) {
	var row bookmarkRow
	err := g.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ? AND reference_id = ?", ownerID, string(kind), referenceID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LoadSettings returns the stored settings merged over the defaults. A
// missing or unreadable blob yields the defaults.
func (g *Gateway) LoadSettings(ctx context.Context) (core.Settings, error) {
	settings := core.DefaultSettings()

	var row settingRow
	err := g.db.WithContext(ctx).Where("key = ?", core.SettingsKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, nil
	}
	if err != nil {
		return settings, g.fail(opLoadSettings, err)
	}

	if err := json.Unmarshal([]byte(row.Value), &settings); err != nil {
		g.logger.Warn("Stored settings are unreadable, using defaults", zap.Error(err))
		return core.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings replaces the stored settings. The last writer wins.
func (g *Gateway) SaveSettings(ctx context.Context, s core.Settings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return g.fail(opSaveSettings, err)
	}

	row := settingRow{Key: core.SettingsKey, Value: string(value), UpdatedAt: g.now().UTC()}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return g.fail(opSaveSettings, err)
	}
	return nil
}

// PatchSettings applies patch to the stored settings and returns the result.
func (g *Gateway) PatchSettings(ctx context.Context, patch core.SettingsPatch) (core.Settings, error) {
	g.settingsMu.Lock()
	defer g.settingsMu.Unlock()

	current, err := g.LoadSettings(ctx)
	if err != nil {
		return current, err
	}

	merged := patch.Apply(current)
	if err := g.SaveSettings(ctx, merged); err != nil {
		return current, err
	}
	return merged, nil
}

func (g *Gateway) fail(op string, err error) error {
	g.metrics.RecordPersistError(op)
	g.logger.Error("Persistence failed", zap.String("op", op), zap.Error(err))
	return &core.PersistenceError{Op: op, Err: err}
}
