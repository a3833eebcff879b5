package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/validator"
)

type categoryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCategoryService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CategoryService {
	return &categoryService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.Category().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, req *CreateCategoryRequest, actor authz.Actor) (*models.Category, error) {
	s.logger.Info("Creating category", "name", req.Name, "actor_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}
	if !authz.IsAdminOrInstructor(actor) {
		return nil, NewPermissionError(actor.ID, uuid.Nil, "category", "create", "requires admin or instructor role")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Category().Create(ctx, nil, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, duplicateNameError()
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", "category_id", category.ID)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest, actor authz.Actor) (*models.Category, error) {
	s.logger.Info("Updating category", "category_id", id, "actor_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}
	if !authz.IsAdminOrInstructor(actor) {
		return nil, NewPermissionError(actor.ID, id, "category", "update", "requires admin or instructor role")
	}

	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := s.repo.Category().Update(ctx, nil, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, duplicateNameError()
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error {
	s.logger.Info("Deleting category", "category_id", id, "actor_id", actor.ID)

	if !authz.IsAdminOrInstructor(actor) {
		return NewPermissionError(actor.ID, id, "category", "delete", "requires admin or instructor role")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	// Courses keep existing with a nulled category reference.
	if err := s.repo.Category().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("Category deleted", "category_id", id)
	return nil
}

func duplicateNameError() validator.ValidationErrors {
	return validator.ValidationErrors{{
		Field:   "name",
		Message: "is already taken",
		Rule:    "unique",
	}}
}
