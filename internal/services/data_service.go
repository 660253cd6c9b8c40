package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/berling9700/budget-tracker/internal/backup"
	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/store"
)

// dataService handles whole-state reads, settings, export and import.
type dataService struct {
	store *store.Store
	log   *zap.SugaredLogger
}

// NewDataService creates a new DataServicer.
func NewDataService(s *store.Store) DataServicer {
	return &dataService{store: s, log: logger.Named("data")}
}

// State returns the full snapshot and whether it is persisted.
func (s *dataService) State() *StateResponse {
	return &StateResponse{
		State:    s.store.Snapshot(),
		Settings: s.store.Settings(),
		Dirty:    s.store.Dirty(),
	}
}

func (s *dataService) Settings() models.Settings {
	return s.store.Settings()
}

// UpdateSettings replaces the settings.
func (s *dataService) UpdateSettings(settings models.Settings) (models.Settings, error) {
	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	settings.AlphaVantageAPIKey = strings.TrimSpace(settings.AlphaVantageAPIKey)
	if err := s.store.SaveSettings(settings); err != nil {
		return models.Settings{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// Export renders the backup file.
func (s *dataService) Export() ([]byte, error) {
	data, err := backup.Export(s.store.Snapshot(), s.store.Settings())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

// Import validates a backup file and, only if it is valid as a whole,
// replaces the current state with it.
func (s *dataService) Import(data []byte) (*models.AppState, error) {
	state, settings, err := backup.Parse(data)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ReplaceAll(state, settings)
	if err != nil {
		return nil, err
	}
	s.log.Infow("Data imported",
		"budgets", len(out.Budgets),
		"assets", len(out.Assets),
		"liabilities", len(out.Liabilities),
	)
	return &out, nil
}
