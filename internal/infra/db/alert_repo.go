package db

import (
	"context"
	"fmt"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AlertRepository stores the whole alert set; SaveAll replaces it atomically.
type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) LoadAll(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Order("seq").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models)
}

func (r *AlertRepository) SaveAll(ctx context.Context, alerts []domain.Alert) error {
	models := make([]alertModel, 0, len(alerts))
	for i, alert := range alerts {
		models = append(models, mapAlertToModel(alert, i))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&alertModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(&models, 100).Error
	})
}

func mapAlertsToDomain(models []alertModel) ([]domain.Alert, error) {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		target, err := decimal.NewFromString(model.TargetPrice)
		if err != nil {
			return nil, fmt.Errorf("alert %s: target price: %w", model.ID, err)
		}
		minAmount, err := optionalDecimal(model.MinAmount)
		if err != nil {
			return nil, fmt.Errorf("alert %s: min amount: %w", model.ID, err)
		}
		matched, err := optionalDecimal(model.MatchedPrice)
		if err != nil {
			return nil, fmt.Errorf("alert %s: matched price: %w", model.ID, err)
		}
		alerts = append(alerts, domain.Alert{
			ID:              model.ID,
			OwnerID:         model.OwnerID,
			Exchange:        domain.Exchange(model.Exchange),
			Side:            domain.Side(model.Side),
			Asset:           model.Asset,
			Fiat:            model.Fiat,
			TargetPrice:     target,
			MinAmount:       minAmount,
			PaymentMethod:   model.PaymentMethod,
			Recurring:       model.Recurring,
			Active:          model.Active,
			LastTriggeredAt: model.LastTriggeredAt,
			MatchedPrice:    matched,
			CreatedAt:       model.CreatedAt,
			UpdatedAt:       model.UpdatedAt,
		})
	}
	return alerts, nil
}

func mapAlertToModel(alert domain.Alert, seq int) alertModel {
	return alertModel{
		ID:              alert.ID,
		Seq:             seq,
		OwnerID:         alert.OwnerID,
		Exchange:        string(alert.Exchange),
		Side:            string(alert.Side),
		Asset:           alert.Asset,
		Fiat:            alert.Fiat,
		TargetPrice:     alert.TargetPrice.String(),
		MinAmount:       decimalString(alert.MinAmount),
		PaymentMethod:   alert.PaymentMethod,
		Recurring:       alert.Recurring,
		Active:          alert.Active,
		LastTriggeredAt: alert.LastTriggeredAt,
		MatchedPrice:    decimalString(alert.MatchedPrice),
		CreatedAt:       alert.CreatedAt,
		UpdatedAt:       alert.UpdatedAt,
	}
}

func optionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func decimalString(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}
