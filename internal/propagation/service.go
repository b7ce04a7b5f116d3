package propagation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/storefront-menu/internal/engine"
	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// Store is the slice of the persistence contract this service needs.
type Store interface {
	GetCategory(ctx context.Context, id string) (models.Category, error)
	GetDish(ctx context.Context, id string) (models.Dish, error)
	ListDishes(ctx context.Context, categoryID string) ([]models.Dish, error)
	GetTemplate(ctx context.Context, id string) (models.CategoryTemplate, error)
	ListTemplates(ctx context.Context, categoryID string) ([]models.CategoryTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	UpdateDish(ctx context.Context, id string, fn func(*models.Dish) error) (models.Dish, error)
}

// BatchObserver receives the outcome counts of every bulk operation.
type BatchObserver interface {
	ObserveBatch(operation string, succeeded, failed int)
}

// Service applies category templates to dishes and detaches dishes from
// their category. Each dish mutation is one Store.UpdateDish call; batches
// are sequences of those, never one cross-dish transaction.
type Service struct {
	store    Store
	logger   *slog.Logger
	observer BatchObserver
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithObserver reports batch outcomes to o.
func WithObserver(o BatchObserver) Option {
	return func(s *Service) { s.observer = o }
}

// WithIDGenerator overrides how fresh group ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a new propagation service
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyTemplateToDishes makes a template apply to each listed dish.
// Inherited dishes of the template's category already see it and need no
// change; detached dishes receive a new dish-owned copy appended after
// their existing groups. Unknown templates fail the whole call; everything
// else is reported per dish.
func (s *Service) ApplyTemplateToDishes(ctx context.Context, templateID string, dishIDs []string) (BatchResult, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return BatchResult{}, err
	}

	result := s.applyAll(ctx, tpl, dedupe(dishIDs))
	s.finish("apply_template", result)
	return result, nil
}

// ApplyTemplateToCategory applies a template to every dish currently in
// categoryID. Dishes added later inherit it through resolution.
func (s *Service) ApplyTemplateToCategory(ctx context.Context, templateID, categoryID string) (BatchResult, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return BatchResult{}, err
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return BatchResult{}, err
	}
	dishes, err := s.store.ListDishes(ctx, categoryID)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list dishes of category %s: %w", categoryID, err)
	}

	ids := make([]string, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}

	result := s.applyAll(ctx, tpl, ids)
	s.finish("apply_template_category", result)
	return result, nil
}

func (s *Service) applyAll(ctx context.Context, tpl models.CategoryTemplate, dishIDs []string) BatchResult {
	result := newBatchResult(tpl)
	for _, id := range dishIDs {
		inherited, err := s.applyToDish(ctx, tpl, id)
		if err != nil {
			s.logger.Warn("template not applied to dish",
				"template_id", tpl.ID,
				"dish_id", id,
				"error", err,
			)
			result.fail(id, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		if inherited && !tpl.Active {
			result.AwaitingActivation = append(result.AwaitingActivation, id)
		}
	}
	return result
}

// applyToDish reports whether the dish inherits the template through
// resolution rather than receiving a copy.
func (s *Service) applyToDish(ctx context.Context, tpl models.CategoryTemplate, dishID string) (bool, error) {
	dish, err := s.store.GetDish(ctx, dishID)
	if err != nil {
		return false, err
	}
	if err := checkCategory(dish, tpl); err != nil {
		return false, err
	}
	if !dish.IsDetached() {
		return true, nil
	}

	_, err = s.store.UpdateDish(ctx, dishID, func(d *models.Dish) error {
		if err := checkCategory(*d, tpl); err != nil {
			return err
		}
		d.CustomGroups = append(d.CustomGroups, s.copyGroup(tpl.EffectiveGroup(), d.ID))
		return nil
	})
	return false, err
}

func checkCategory(dish models.Dish, tpl models.CategoryTemplate) error {
	if dish.CategoryID != tpl.CategoryID {
		return fmt.Errorf("dish %s is in category %s, template %s belongs to %s: %w",
			dish.ID, dish.CategoryID, tpl.ID, tpl.CategoryID, models.ErrCrossCategoryMismatch)
	}
	return nil
}

// BreakInheritance snapshots a dish's inherited groups into dish-owned
// copies and marks it detached, in one atomic dish update. The effective
// schema is unchanged apart from group ids and origins.
func (s *Service) BreakInheritance(ctx context.Context, dishID string) (DetachResult, error) {
	dish, err := s.store.GetDish(ctx, dishID)
	if err != nil {
		return DetachResult{}, err
	}
	if dish.IsDetached() {
		return DetachResult{}, fmt.Errorf("dish %s: %w", dishID, models.ErrAlreadyDetached)
	}
	templates, err := s.store.ListTemplates(ctx, dish.CategoryID)
	if err != nil {
		return DetachResult{}, fmt.Errorf("list templates of category %s: %w", dish.CategoryID, err)
	}

	var result DetachResult
	_, err = s.store.UpdateDish(ctx, dishID, func(d *models.Dish) error {
		if d.IsDetached() {
			return fmt.Errorf("dish %s: %w", d.ID, models.ErrAlreadyDetached)
		}

		before := engine.Resolve(*d, templates)
		inherited := engine.InheritedGroups(before)

		result = DetachResult{DishID: d.ID, CopiedGroups: make([]CopiedGroup, 0, len(inherited))}
		groups := make([]models.ModifierGroup, 0, len(inherited)+len(d.CustomGroups))
		for _, g := range inherited {
			c := s.copyGroup(g, d.ID)
			groups = append(groups, c)
			result.CopiedGroups = append(result.CopiedGroups, CopiedGroup{TemplateID: g.Origin.TemplateID, GroupID: c.ID})
		}
		d.CustomGroups = append(groups, d.CustomGroups...)
		d.InheritanceState = models.Detached

		after := engine.Resolve(*d, templates)
		if !engine.Equivalent(before, after) {
			return fmt.Errorf("dish %s: %w", d.ID, errSnapshotDiverged)
		}
		result.Schema = after
		return nil
	})
	if err != nil {
		return DetachResult{}, err
	}

	s.logger.Info("dish detached from category templates",
		"dish_id", dishID,
		"category_id", dish.CategoryID,
		"copied_groups", len(result.CopiedGroups),
	)
	return result, nil
}

// DeleteTemplate removes a template. Detached dishes keep their copies;
// inherited dishes of the category stop seeing it on their next read.
func (s *Service) DeleteTemplate(ctx context.Context, templateID string) (DeleteResult, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return DeleteResult{}, err
	}
	dishes, err := s.store.ListDishes(ctx, tpl.CategoryID)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("list dishes of category %s: %w", tpl.CategoryID, err)
	}
	if err := s.store.DeleteTemplate(ctx, templateID); err != nil {
		return DeleteResult{}, err
	}

	result := DeleteResult{
		TemplateID:     tpl.ID,
		CategoryID:     tpl.CategoryID,
		AffectedDishes: make([]string, 0),
	}
	if tpl.Active {
		for _, d := range dishes {
			if !d.IsDetached() {
				result.AffectedDishes = append(result.AffectedDishes, d.ID)
			}
		}
	}

	s.logger.Info("template deleted",
		"template_id", tpl.ID,
		"category_id", tpl.CategoryID,
		"affected_dishes", len(result.AffectedDishes),
	)
	return result, nil
}

// copyGroup deep-copies g as a new group owned by dishID.
func (s *Service) copyGroup(g models.ModifierGroup, dishID string) models.ModifierGroup {
	c := g.Clone()
	c.ID = s.newID()
	c.Origin = models.DishOrigin(dishID)
	if g.Origin.IsTemplate() {
		c.SourceTemplateID = g.Origin.TemplateID
	}
	return c
}

func (s *Service) finish(operation string, result BatchResult) {
	if s.observer != nil {
		s.observer.ObserveBatch(operation, len(result.Succeeded), len(result.Failed))
	}
	s.logger.Info("template batch finished",
		"operation", operation,
		"template_id", result.TemplateID,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
	)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
