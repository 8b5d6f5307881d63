package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
)

func TestMedicineDetail(t *testing.T) {
	svc := NewMedicineService(repository.NewMemoryMedicineRepository(testCatalog()...))
	ctx := context.Background()

	tests := []struct {
		name     string
		medicine string
		intent   models.MessageIntent
		want     string
		ok       bool
	}{
		{"numeric price", "paracetamol", models.IntentPrice, "The price of Paracetamol is ₹25.5.", true},
		{"display price", "CROCIN", models.IntentPrice, "The price of Crocin is ₹30 for 15 tablets.", true},
		{"dosage", "Paracetamol", models.IntentDosage, "The recommended dosage for Paracetamol is: 500mg every 6 hours", true},
		{"side effects", "Paracetamol", models.IntentSideEffects, "Possible side effects of Paracetamol include: nausea, rash.", true},
		{"precautions", "Paracetamol", models.IntentPrecautions, "Precautions for Paracetamol: avoid alcohol.", true},
		{"delivery", "Paracetamol", models.IntentDelivery, "Paracetamol is usually delivered within 2-3 days.", true},
		{"missing field", "Crocin", models.IntentDelivery, "", false},
		{"missing price", "Digene", models.IntentPrice, "", false},
		{"unknown medicine", "Aspirin", models.IntentPrice, "", false},
		{"intent without field", "Paracetamol", models.IntentSymptoms, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := svc.Detail(ctx, tt.medicine, tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedicineOverview(t *testing.T) {
	svc := NewMedicineService(repository.NewMemoryMedicineRepository(testCatalog()...))

	got, ok, err := svc.Detail(context.Background(), "Paracetamol", models.IntentMedicineOverview)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, got, "Paracetamol: Pain reliever and fever reducer")
	assert.Contains(t, got, "Used for: fever, body ache")
	assert.Contains(t, got, "Price: ₹25.5")
	assert.Contains(t, got, "Availability: In Stock")
}

func TestMedicineLookup(t *testing.T) {
	svc := NewMedicineService(repository.NewMemoryMedicineRepository(testCatalog()...))
	ctx := context.Background()

	all, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	m, err := svc.GetByID(ctx, all[1].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Crocin", m.Name)

	_, err = svc.GetByID(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, ErrMedicineNotFound)

	_, err = svc.FindByName(ctx, "nothing")
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}
