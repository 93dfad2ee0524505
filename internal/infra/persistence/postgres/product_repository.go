package postgres

import (
	"context"
	"strings"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/errors"
	"basket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productRepository implements the domain.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	return nil
}

// Update overwrites the mutable fields. Stock is written as given; concurrent
// checkouts only ever lower it through DecrementStock.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(productM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

// FindByIDs retrieves every product whose ID is in ids.
func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productModels []model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	return toProductsDomain(productModels), nil
}

// List retrieves products matching filter, newest first.
func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := repo.db.WithContext(ctx).Scopes(page(filter.Limit, filter.Offset)).Order("created_at DESC")
	if filter.OnlyAvailable {
		query = query.Where("is_available")
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveCategoriesOnly {
		query = query.Where("category_id IS NULL OR category_id IN (?)",
			repo.db.Model(&model.CategoryModel{}).Select("id").Where("is_active"))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(search)+"%")
	}

	var productModels []model.ProductModel
	if err := query.Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductsDomain(productModels), nil
}

// DecrementStock lowers stock by quantity only while enough remains. The
// guard lives in the WHERE clause so concurrent checkouts cannot oversell.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStockNotDecremented
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toProductsDomain(productModels []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(productModels))
	for i := range productModels {
		products = append(products, toProductDomain(&productModels[i]))
	}

	return products
}

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	history := make([]entity.PricePoint, 0, len(data.PriceHistory))
	for _, point := range data.PriceHistory {
		history = append(history, entity.PricePoint{Price: point.Price, ChangedAt: point.ChangedAt})
	}

	return &entity.Product{
		ID:                  data.ID,
		Name:                data.Name,
		Description:         data.Description,
		CategoryID:          data.CategoryID,
		Unit:                data.Unit,
		Brand:               data.Brand,
		BasePrice:           data.BasePrice,
		Stock:               data.Stock,
		IsAvailable:         data.IsAvailable,
		IsPromotionEligible: data.IsPromotionEligible,
		Discount:            discountFromColumns(data.DiscountKind, data.DiscountValue, data.DiscountExpiresAt),
		PriceHistory:        history,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	history := make([]model.PricePointJSON, 0, len(data.PriceHistory))
	for _, point := range data.PriceHistory {
		history = append(history, model.PricePointJSON{Price: point.Price, ChangedAt: point.ChangedAt})
	}

	kind, value, expiresAt := discountColumns(data.Discount)

	return &model.ProductModel{
		ID:                  data.ID,
		Name:                data.Name,
		Description:         data.Description,
		CategoryID:          data.CategoryID,
		Unit:                data.Unit,
		Brand:               data.Brand,
		BasePrice:           data.BasePrice,
		Stock:               data.Stock,
		IsAvailable:         data.IsAvailable,
		IsPromotionEligible: data.IsPromotionEligible,
		DiscountKind:        kind,
		DiscountValue:       value,
		DiscountExpiresAt:   expiresAt,
		PriceHistory:        history,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
