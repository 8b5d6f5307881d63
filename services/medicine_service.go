package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
)

var ErrMedicineNotFound = errors.New("medicine not found")

// MedicineService answers catalog questions about a single medicine.
type MedicineService struct {
	medicines repository.MedicineRepository
}

func NewMedicineService(medicines repository.MedicineRepository) *MedicineService {
	return &MedicineService{medicines: medicines}
}

// Catalog returns every medicine in store order.
func (s *MedicineService) Catalog(ctx context.Context) ([]models.Medicine, error) {
	return s.medicines.ListAll(ctx)
}

func (s *MedicineService) GetByID(ctx context.Context, id string) (*models.Medicine, error) {
	return s.resolve(s.medicines.FindByID(ctx, id))
}

// FindByName resolves the first medicine whose name contains name.
func (s *MedicineService) FindByName(ctx context.Context, name string) (*models.Medicine, error) {
	return s.resolve(s.medicines.FindByName(ctx, name))
}

func (s *MedicineService) resolve(m *models.Medicine, err error) (*models.Medicine, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Detail builds the reply for an intent about the named medicine. The bool is
// false when no medicine resolves or the requested field is empty.
func (s *MedicineService) Detail(ctx context.Context, name string, intent models.MessageIntent) (string, bool, error) {
	m, err := s.FindByName(ctx, name)
	if errors.Is(err, ErrMedicineNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up %q: %w", name, err)
	}

	text := describe(m, intent)
	return text, text != "", nil
}

func describe(m *models.Medicine, intent models.MessageIntent) string {
	switch intent {
	case models.IntentPrice:
		if price := priceText(m); price != "" {
			return fmt.Sprintf("The price of %s is %s.", m.Name, price)
		}
	case models.IntentDosage:
		if m.Dosage != "" {
			return fmt.Sprintf("The recommended dosage for %s is: %s", m.Name, m.Dosage)
		}
	case models.IntentSideEffects:
		if len(m.SideEffects) > 0 {
			return fmt.Sprintf("Possible side effects of %s include: %s.", m.Name, strings.Join(m.SideEffects, ", "))
		}
	case models.IntentPrecautions:
		if len(m.Precautions) > 0 {
			return fmt.Sprintf("Precautions for %s: %s.", m.Name, strings.Join(m.Precautions, "; "))
		}
	case models.IntentDelivery:
		if m.DeliveryTime != "" {
			return fmt.Sprintf("%s is usually delivered within %s.", m.Name, m.DeliveryTime)
		}
	case models.IntentMedicineOverview:
		return overview(m)
	}
	return ""
}

func overview(m *models.Medicine) string {
	var b strings.Builder
	b.WriteString(m.Name)
	if m.Description != "" {
		b.WriteString(": " + m.Description)
	}
	if uses := m.Uses(); len(uses) > 0 {
		b.WriteString("\nUsed for: " + strings.Join(uses, ", "))
	}
	if m.Dosage != "" {
		b.WriteString("\nDosage: " + m.Dosage)
	}
	if price := priceText(m); price != "" {
		b.WriteString("\nPrice: " + price)
	}
	if m.DeliveryTime != "" {
		b.WriteString("\nDelivery: " + m.DeliveryTime)
	}
	b.WriteString("\nAvailability: " + m.AvailabilityLabel())
	return b.String()
}

// priceText prefers the stored display form, then the numeric field.
func priceText(m *models.Medicine) string {
	if s := m.Price.String(); s != "" {
		return s
	}
	if m.PriceNumeric != nil && *m.PriceNumeric > 0 {
		return models.NumericPrice(*m.PriceNumeric).String()
	}
	return ""
}
