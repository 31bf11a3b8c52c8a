// Package sqlstore persists products through GORM on SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrops-br/financial-products/internal/domain"
)

// productRecord is the products table row.
type productRecord struct {
	ID           string `gorm:"primaryKey;size:10"`
	Name         string `gorm:"size:100;not null"`
	Description  string `gorm:"size:200;not null"`
	Logo         string `gorm:"not null"`
	DateRelease  string `gorm:"size:10;not null"`
	DateRevision string `gorm:"size:10;not null"`
}

func (productRecord) TableName() string { return "products" }

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease,
		DateRevision: p.DateRevision,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Logo:         r.Logo,
		DateRelease:  r.DateRelease,
		DateRevision: r.DateRevision,
	}
}

// Open connects to the database selected by driver ("sqlite" or "postgres")
// and migrates the products table.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return db, nil
}

// ProductRepository implements domain.ProductRepository on GORM.
type ProductRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
	logger *slog.Logger
}

func NewProductRepository(db *gorm.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{db: db, tracer: tracer, logger: logger}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.Create")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", product.ID))

	exists, err := r.Exists(ctx, product.ID)
	if err != nil {
		return r.fail(span, err)
	}
	if exists {
		return r.fail(span, domain.ErrProductAlreadyExists)
	}

	rec := toRecord(product)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return r.fail(span, fmt.Errorf("insert product: %w", err))
	}

	r.logger.InfoContext(ctx, "Product created in repository", slog.String("product_id", product.ID))
	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.Update")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", product.ID))

	rec := toRecord(product)
	res := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", product.ID).
		Select("*").Updates(&rec)
	if res.Error != nil {
		return r.fail(span, fmt.Errorf("update product: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return r.fail(span, domain.ErrProductNotFound)
	}

	r.logger.InfoContext(ctx, "Product updated in repository", slog.String("product_id", product.ID))
	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productRecord{})
	if res.Error != nil {
		return r.fail(span, fmt.Errorf("delete product: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return r.fail(span, domain.ErrProductNotFound)
	}

	r.logger.InfoContext(ctx, "Product deleted from repository", slog.String("product_id", id))
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.FindByID")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	var rec productRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.fail(span, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, r.fail(span, fmt.Errorf("find product: %w", err))
	}

	span.SetStatus(codes.Ok, "Product found")
	return rec.toDomain(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.FindAll")
	defer span.End()

	var recs []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, r.fail(span, fmt.Errorf("list products: %w", err))
	}

	products := make([]*domain.Product, len(recs))
	for i, rec := range recs {
		products[i] = rec.toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "SQLProductRepository.Exists")
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.fail(span, fmt.Errorf("count products: %w", err))
	}

	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.Bool("product.exists", count > 0),
	)
	return count > 0, nil
}

func (r *ProductRepository) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
