package query

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/dto"
)

// entityValidator checks the merged result of a mutation before anything is
// written: struct tags cover shape and enums, coded checks cover the
// cross-entity transfer rules. The opaque collections pass through unchecked.
type entityValidator struct {
	v *validator.Validate
}

func newEntityValidator() *entityValidator {
	return &entityValidator{v: validator.New()}
}

func (ev *entityValidator) check(resourceName string, doc *domain.Document, item map[string]any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	switch resourceName {
	case "accounts":
		var p dto.AccountPayload
		return ev.decodeAndValidate(raw, &p)

	case "categories":
		var p dto.CategoryPayload
		return ev.decodeAndValidate(raw, &p)

	case "transactions":
		var p dto.TransactionPayload
		if err := ev.decodeAndValidate(raw, &p); err != nil {
			return err
		}
		return ev.checkTransaction(doc, p)

	case "budgets":
		var p dto.BudgetPayload
		if err := ev.decodeAndValidate(raw, &p); err != nil {
			return err
		}
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: budget amount must not be negative", apperrors.ErrValidation)
		}
		return nil

	case "attachments":
		var p dto.AttachmentPayload
		return ev.decodeAndValidate(raw, &p)

	default:
		return nil
	}
}

func (ev *entityValidator) decodeAndValidate(raw []byte, payload any) error {
	if err := json.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := ev.v.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func (ev *entityValidator) checkTransaction(doc *domain.Document, p dto.TransactionPayload) error {
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	if p.Type != string(domain.TypeTransfer) {
		if p.AccountIDTo != nil && *p.AccountIDTo != "" {
			return fmt.Errorf("%w: accountIdTo is only valid for transfers", apperrors.ErrValidation)
		}
		return nil
	}

	// Transfer rules.
	if p.CategoryID != nil {
		return fmt.Errorf("%w: a transfer cannot carry a category", apperrors.ErrValidation)
	}
	if p.AccountIDTo == nil || *p.AccountIDTo == "" {
		return fmt.Errorf("%w: a transfer requires a destination account", apperrors.ErrValidation)
	}
	if *p.AccountIDTo == p.AccountID {
		return fmt.Errorf("%w: a transfer cannot target its own source account", apperrors.ErrValidation)
	}
	for _, accountID := range []string{p.AccountID, *p.AccountIDTo} {
		account, found := doc.AccountByID(accountID)
		if !found {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, accountID)
		}
		if account.IsArchived {
			return fmt.Errorf("%w: account %s is archived", apperrors.ErrValidation, accountID)
		}
	}
	return nil
}
