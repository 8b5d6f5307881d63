package services

import (
	"context"
	"errors"

	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
)

func outOfStock() *bool {
	b := false
	return &b
}

func testCatalog() []models.Medicine {
	return []models.Medicine{
		{
			Name:         "Paracetamol",
			Description:  "Pain reliever and fever reducer",
			Use0:         "fever",
			Use1:         "body ache",
			Dosage:       "500mg every 6 hours",
			Price:        models.NumericPrice(25.5),
			DeliveryTime: "2-3 days",
			SideEffects:  []string{"nausea", "rash"},
			Precautions:  []string{"avoid alcohol"},
		},
		{
			Name:     "Crocin",
			Use0:     "fever",
			Use1:     "headache",
			Dosage:   "1 tablet",
			Price:    models.DisplayPrice("₹30 for 15 tablets"),
			ImageURL: "crocin.png",
		},
		{
			Name:  "Cetirizine",
			Use0:  "allergic rhinitis",
			Use1:  "urticaria",
			Price: models.NumericPrice(18),
		},
		{
			Name:        "Benadryl",
			Use0:        "cough",
			InStockFlag: outOfStock(),
		},
		{
			Name: "Digene",
			Use0: "acidity",
			Use1: "indigestion",
		},
	}
}

func newTestChatbot() (*ChatbotService, *repository.Repositories) {
	repos := repository.NewMemoryRepositories(testCatalog()...)
	vocab := matcher.NewVocabulary()
	vocab.Build(testCatalog())
	return NewChatbotService(repos, vocab, matcher.Levenshtein{}, matcher.DefaultOptions()), repos
}

type failingSessions struct{}

func (failingSessions) Load(ctx context.Context, key string) (*models.Session, error) {
	return nil, errors.New("session store unavailable")
}

func (failingSessions) Save(ctx context.Context, session *models.Session) error {
	return errors.New("session store unavailable")
}
