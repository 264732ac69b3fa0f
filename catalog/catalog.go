// Package catalog reads and writes products and the site's published content.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"solar-store/models"
)

var ErrProductNotFound = errors.New("product not found")

const newestFirst = "created_at desc, id desc"

// ListProducts returns products newest first, restricted to category unless it is empty.
func ListProducts(ctx context.Context, db *gorm.DB, category models.Category) ([]models.Product, error) {
	q := db.WithContext(ctx).Order(newestFirst)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SpecialOffers returns flagged products newest first; limit <= 0 means all.
func SpecialOffers(ctx context.Context, db *gorm.DB, limit int) ([]models.Product, error) {
	q := db.WithContext(ctx).Where("is_special_offer = ?", true).Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list special offers: %w", err)
	}
	return products, nil
}

func GetProduct(ctx context.Context, db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	err := db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func CreateProduct(ctx context.Context, db *gorm.DB, p *models.Product) error {
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func UpdateProduct(ctx context.Context, db *gorm.DB, p *models.Product) error {
	if err := db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct hard deletes the row. Order items that reference it are left alone.
func DeleteProduct(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func ListProjects(ctx context.Context, db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := db.WithContext(ctx).Order(newestFirst).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func ListBlogPosts(ctx context.Context, db *gorm.DB) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := db.WithContext(ctx).Preload("Author").Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

func CreateBlogPost(ctx context.Context, db *gorm.DB, post *models.BlogPost) error {
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create blog post: %w", err)
	}
	return nil
}
