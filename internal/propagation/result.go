package propagation

import (
	"errors"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// DishFailure explains why one dish in a batch was not updated.
type DishFailure struct {
	DishID  string           `json:"dishId"`
	Reason  models.ErrorKind `json:"reason"`
	Message string           `json:"message"`
}

// BatchResult is the per-dish manifest of a bulk operation. A batch never
// aborts on one dish's failure.
//
// When the template is inactive, inherited dishes still succeed but are
// also listed in AwaitingActivation: they will only see the template once
// it is activated.
type BatchResult struct {
	TemplateID         string        `json:"templateId"`
	TemplateActive     bool          `json:"templateActive"`
	Succeeded          []string      `json:"succeeded"`
	AwaitingActivation []string      `json:"awaitingActivation,omitempty"`
	Failed             []DishFailure `json:"failed"`
}

// AppliedCount is the number of dishes the operation succeeded on.
func (r BatchResult) AppliedCount() int {
	return len(r.Succeeded)
}

func newBatchResult(tpl models.CategoryTemplate) BatchResult {
	return BatchResult{
		TemplateID:     tpl.ID,
		TemplateActive: tpl.Active,
		Succeeded:      make([]string, 0),
		Failed:         make([]DishFailure, 0),
	}
}

func (r *BatchResult) fail(dishID string, err error) {
	r.Failed = append(r.Failed, DishFailure{
		DishID:  dishID,
		Reason:  models.KindOf(err),
		Message: err.Error(),
	})
}

// CopiedGroup maps an inherited template to the dish-owned group that
// replaced it.
type CopiedGroup struct {
	TemplateID string `json:"templateId"`
	GroupID    string `json:"groupId"`
}

// DetachResult describes a completed BreakInheritance.
type DetachResult struct {
	DishID       string                 `json:"dishId"`
	CopiedGroups []CopiedGroup          `json:"copiedGroups"`
	Schema       models.EffectiveSchema `json:"schema"`
}

// DeleteResult lists the inherited dishes whose effective schema lost the
// deleted template.
type DeleteResult struct {
	TemplateID     string   `json:"templateId"`
	CategoryID     string   `json:"categoryId"`
	AffectedDishes []string `json:"affectedDishes"`
}

// errSnapshotDiverged guards the detach post-condition.
var errSnapshotDiverged = errors.New("detached snapshot differs from effective schema")
